package queue

import (
	"log"

	"github.com/go-sif/segmented/logging"
)

// Options configure a CommandQueue
type Options struct {
	Name   string          // a human-readable name for this queue, used in logs (defaults to a prefix of its ID)
	Depth  int             // the maximum number of submitted commands which have not completed; Submit blocks beyond it
	Logger *logging.Logger // where this queue logs (defaults to discarding)
}

// CloneOptions makes a copy of an Options
func CloneOptions(opts *Options) *Options {
	return &Options{
		Name:   opts.Name,
		Depth:  opts.Depth,
		Logger: opts.Logger,
	}
}

func ensureDefaultOptionsValues(opts *Options, id string) {
	// crash if certain options are nonsensical
	if opts.Depth < 0 {
		log.Panicf("Options.Depth %d must not be negative", opts.Depth)
	}
	// default certain options if not supplied
	if opts.Depth == 0 {
		opts.Depth = 64
	}
	if len(opts.Name) == 0 {
		opts.Name = "queue-" + id[:8]
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
}
