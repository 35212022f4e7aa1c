// Package topicmgr keeps the catalogue of every pub/sub topic the application
// uses, split into framework topics (websocket plumbing) and module topics
// (battle events and commands).
//
// Framework topics are declared by core services:
//
//	var ClientConnected = topicmgr.DefineFramework(topicmgr.TopicConfig{
//		Name:        "ws.client.connected",
//		Description: "Published when a websocket client connects",
//		Pattern:     "ws.client.connected",
//	})
//
// Module topics are usually declared through pubsub.NewEvent, which registers
// them with the Default manager. The CLI's "topics list" command prints the
// catalogue.
package topicmgr
