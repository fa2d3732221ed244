package api

import (
	"context"

	"hndigest/app/config"
	"hndigest/app/digest"
)

// Runner generates a digest for a channel without posting it.
type Runner interface {
	Run(ctx context.Context, channel *config.Channel) (digest.Digest, error)
}

type Handler struct {
	channels map[string]*config.Channel
	runner   Runner
	version  string
}
