package page

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/network"
)

// OpenURL fetches rawURL and opens it. Relative references in the page
// resolve against the final URL. The loader needs a client for http URLs;
// one is created when no WithLoader option is given.
func OpenURL(ctx context.Context, rawURL string, opts ...Option) (*Page, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	loader := o.loader
	if loader == nil {
		client, err := network.NewClient()
		if err != nil {
			return nil, err
		}
		loader = network.NewLoader(network.WithClient(client), network.WithCache(network.NewCache(0)))
	}

	res, err := loader.Load(ctx, "", rawURL)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	opts = append([]Option{WithLoader(loader), WithBase(res.URL), WithContext(ctx)}, opts...)
	return Open(res.URL, bytes.NewReader(res.Content), opts...)
}

// loadStyleSheets adds every <link rel="stylesheet"> to the document in
// tree order. Failures are returned and the rest still load.
func (p *Page) loadStyleSheets(o options) []error {
	var hrefs []string
	p.Doc.Walk(func(e *dom.Element) bool {
		if e.LocalName() == "link" && isStyleSheetLink(e.GetAttribute("rel")) {
			if href := strings.TrimSpace(e.GetAttribute("href")); href != "" {
				hrefs = append(hrefs, href)
			}
		}
		return true
	})

	var errs []error
	for _, href := range hrefs {
		res, err := o.loader.Load(o.ctx, o.base, href)
		if err != nil {
			errs = append(errs, fmt.Errorf("load stylesheet %s: %w", href, err))
			continue
		}
		p.Doc.AddStyleSheet(res.String())
		p.log.Debug("stylesheet loaded", zap.String("href", href), zap.Bool("cached", res.Cached))
	}
	return errs
}

func isStyleSheetLink(rel string) bool {
	for _, f := range strings.Fields(strings.ToLower(rel)) {
		if f == "stylesheet" {
			return true
		}
	}
	return false
}
