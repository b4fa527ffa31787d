package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wolfeidau/inlineassets/internal/inline"
)

type InspectCmd struct {
	URI string `arg:"" help:"data URI, or a module containing one"`

	out io.Writer `kong:"-"`
}

func (i *InspectCmd) Run(ctx context.Context, globals *Globals) error {
	uri := strings.TrimSpace(i.URI)
	uri = strings.TrimPrefix(uri, "export default ")
	uri = strings.Trim(uri, `";`)

	data, mimeType, encoding, err := inline.DecodeDataURI(uri)
	if err != nil {
		return err
	}

	if mimeType == "" {
		mimeType = "(unknown)"
	}

	_, err = fmt.Fprintf(stdout(i.out), "mimetype: %s\nencoding: %s\nbytes: %d\n", mimeType, encoding, len(data))
	return err
}
