package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/catalogtree/pkg/glossary"
	rio "github.com/matzehuels/catalogtree/pkg/io"
	"github.com/matzehuels/catalogtree/pkg/observability"
	"github.com/matzehuels/catalogtree/pkg/render"
	"github.com/matzehuels/catalogtree/pkg/render/nodelink"
	"github.com/matzehuels/catalogtree/pkg/render/outline"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// Render generates artifacts for formats without consulting the cache.
func Render(ctx context.Context, f *tree.Forest, formats []string, opts Options) (artifacts map[string][]byte, err error) {
	start := time.Now()
	observability.Build().OnRenderStart(ctx, formats)
	defer func() {
		observability.Build().OnRenderComplete(ctx, formats, time.Since(start), err)
	}()

	artifacts = make(map[string][]byte, len(formats))
	var dot string
	for _, format := range formats {
		var data []byte
		switch format {
		case render.FormatJSON:
			data, err = rio.MarshalForest(f)
		case render.FormatOutline:
			data = []byte(outline.Render(f.Roots, OutlineOptions(opts)) + "\n")
		case render.FormatDOT, render.FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(f, NodelinkOptions(opts))
			}
			if format == render.FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, ValidateOutput(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// OutlineOptions maps pipeline options onto the outline renderer.
func OutlineOptions(opts Options) outline.Options {
	return outline.Options{
		IDField:    opts.TreeOptions().IDField,
		LabelField: opts.LabelField,
		TypeField:  opts.TypeField,
		MatchField: glossary.FieldIsMatch,
	}
}

// NodelinkOptions maps pipeline options onto the node-link renderer.
func NodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		IDField:    opts.TreeOptions().IDField,
		LabelField: opts.LabelField,
		Detailed:   opts.Detailed,
	}
}
