package handlers

import (
	"context"

	"mercator-hq/parley/pkg/chat"
)

// ChatService answers chat requests.
type ChatService interface {
	Handle(ctx context.Context, req *chat.Request) (*chat.Response, error)
}
