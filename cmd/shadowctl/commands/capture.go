package commands

import (
	"time"

	"github.com/shadowlink/shadowlink-go/pkg/log"
)

// logDocument records a shadow document on the codec layer. Built requests
// are outgoing, parsed documents incoming.
func logDocument(logger log.Logger, clientID string, doc log.DocumentEvent, text []byte) {
	if logger == nil {
		return
	}
	dir := log.DirectionOut
	if doc.Kind == log.DocumentResponse {
		dir = log.DirectionIn
	}
	clipped, _ := log.Clip(text)
	doc.Size = len(text)
	doc.Text = string(clipped)

	logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     log.LayerCodec,
		Category:  log.CategoryMessage,
		ClientID:  clientID,
		Document:  &doc,
	})
}
