package partitioned

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-sif/segmented/errors"
	"github.com/go-sif/segmented/logging"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// layoutDocument is the form of a layout document written by Layout
type layoutDocument struct {
	Name        string `json:"name,omitempty"`
	Sizes       []int  `json:"sizes"`
	Queues      int    `json:"queues,omitempty"`
	QueueDepth  int    `json:"queue_depth,omitempty"`
	Placement   string `json:"placement,omitempty"`
	Compression string `json:"compression,omitempty"`
}

var logLevels = map[string]int{
	"trace": logging.TraceLevel,
	"debug": logging.DebugLevel,
	"info":  logging.InfoLevel,
	"warn":  logging.WarnLevel,
	"error": logging.ErrorLevel,
	"fatal": logging.FatalLevel,
}

// ParseLayout reads Options from a JSON layout document, such as:
//
//	{"name": "samples", "sizes": [4, 0, 6], "queues": 2, "placement": "hashed", "log_level": "debug"}
//
// Recognized fields are name, len, partitions, sizes, queues, queue_depth, placement, compression
// and log_level. A log_level produces a Logger writing to stderr. Unknown fields are ignored.
func ParseLayout(doc []byte) (*Options, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.LayoutError{Reason: "document is not valid JSON"}
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, errors.LayoutError{Reason: "document must be a JSON object"}
	}
	opts := &Options{}
	var err error
	if opts.Name, err = layoutString(root, "name"); err != nil {
		return nil, err
	}
	if opts.Len, err = layoutInt(root, "len"); err != nil {
		return nil, err
	}
	if opts.Partitions, err = layoutInt(root, "partitions"); err != nil {
		return nil, err
	}
	if opts.NumQueues, err = layoutInt(root, "queues"); err != nil {
		return nil, err
	}
	if opts.QueueDepth, err = layoutInt(root, "queue_depth"); err != nil {
		return nil, err
	}
	if sizes := root.Get("sizes"); sizes.Exists() {
		if !sizes.IsArray() {
			return nil, errors.LayoutError{Field: "sizes", Reason: "must be an array of integers"}
		}
		for i, size := range sizes.Array() {
			if !isInt(size) {
				return nil, errors.LayoutError{Field: fmt.Sprintf("sizes.%d", i), Reason: "must be an integer"}
			}
			opts.Sizes = append(opts.Sizes, int(size.Int()))
		}
		if len(opts.Sizes) == 0 {
			return nil, errors.LayoutError{Field: "sizes", Reason: "must name at least one partition"}
		}
	}
	placement, err := layoutString(root, "placement")
	if err != nil {
		return nil, err
	}
	opts.Placement = Placement(placement)
	compression, err := layoutString(root, "compression")
	if err != nil {
		return nil, err
	}
	opts.Compression = Compression(compression)
	level, err := layoutString(root, "log_level")
	if err != nil {
		return nil, err
	}
	if len(level) > 0 {
		minLevel, ok := logLevels[strings.ToLower(level)]
		if !ok {
			return nil, errors.LayoutError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", level)}
		}
		opts.Logger = logging.New(os.Stderr, minLevel)
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func layoutString(root gjson.Result, field string) (string, error) {
	value := root.Get(field)
	if !value.Exists() {
		return "", nil
	}
	if value.Type != gjson.String {
		return "", errors.LayoutError{Field: field, Reason: "must be a string"}
	}
	return value.String(), nil
}

func layoutInt(root gjson.Result, field string) (int, error) {
	value := root.Get(field)
	if !value.Exists() {
		return 0, nil
	}
	if !isInt(value) {
		return 0, errors.LayoutError{Field: field, Reason: "must be an integer"}
	}
	return int(value.Int()), nil
}

func isInt(value gjson.Result) bool {
	return value.Type == gjson.Number && value.Num == float64(int64(value.Num))
}

// Layout returns a layout document describing this Vector, which ParseLayout reads back into
// Options producing the same partition sizes and queue placement
func (v *Vector[T]) Layout() ([]byte, error) {
	return json.Marshal(&layoutDocument{
		Name:        v.opts.Name,
		Sizes:       v.Sizes(),
		Queues:      len(v.queues),
		QueueDepth:  v.opts.QueueDepth,
		Placement:   string(v.opts.Placement),
		Compression: string(v.opts.Compression),
	})
}
