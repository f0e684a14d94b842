package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/ardanlabs/notechain/foundation/web"
)

type index struct {
	page []byte
}

// newIndex renders the index page once with the node it talks to.
func newIndex(build string, nodeURL string) (index, error) {
	tmpl, err := template.ParseFS(assets, "assets/views/index.html")
	if err != nil {
		return index{}, err
	}

	nodeURL = strings.TrimSuffix(nodeURL, "/")

	data := struct {
		Build   string
		NodeURL string
		EventWS string
	}{
		Build:   build,
		NodeURL: nodeURL,
		EventWS: "ws" + strings.TrimPrefix(nodeURL, "http") + "/v1/events",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return index{}, fmt.Errorf("executing index template: %w", err)
	}

	return index{page: buf.Bytes()}, nil
}

func (ig index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := web.SetStatusCode(ctx, http.StatusOK); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(ig.page); err != nil {
		return err
	}

	return nil
}
