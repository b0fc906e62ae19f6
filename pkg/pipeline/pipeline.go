// Package pipeline runs the load → build → render flow shared by the CLI
// and the HTTP API.
//
// # Stages
//
//  1. Load: read records from a file, an inline slice or a node store
//  2. Build: link records into a forest with [tree.Build]
//  3. Render: produce artifacts (json, outline, dot, svg)
//
// Build and render results are cached by content hash, so rebuilding the
// same records with the same options is a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, st, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "nodes.json",
//	    Outputs: []string{"json", "svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/catalogtree/pkg/cache"
	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	rio "github.com/matzehuels/catalogtree/pkg/io"
	"github.com/matzehuels/catalogtree/pkg/render"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// DefaultOutputs is used when Options.Outputs is empty.
var DefaultOutputs = []string{render.FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one source is used, in this order:
	// Records, Source, then the runner's store.
	Records  []tree.Record `json:"records,omitempty"`
	Source   string        `json:"source,omitempty"`
	Format   string        `json:"format,omitempty"`
	RootPath string        `json:"root_path,omitempty"`

	// Build options
	IDField     string               `json:"id_field,omitempty"`
	ParentField string               `json:"parent_field,omitempty"`
	Duplicates  tree.DuplicatePolicy `json:"duplicates,omitempty"`
	Refresh     bool                 `json:"refresh,omitempty"`

	// Render options
	Outputs    []string `json:"outputs,omitempty"`
	LabelField string   `json:"label_field,omitempty"`
	TypeField  string   `json:"type_field,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Forest is the built forest.
	Forest *tree.Forest

	// ForestHash is the content hash of the serialized forest.
	ForestHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records     int
	Roots       int
	Nodes       int
	Unreachable int
	Depth       int

	// Glossary is filled when TypeField names the glossary type field.
	Glossary *glossary.Stats

	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the forest came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateOutput checks that an output format is valid.
func ValidateOutput(format string) error {
	if !render.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid output: %q (must be one of: json, outline, dot, svg)", format)
	}
	return nil
}

// ValidateOutputs checks that all output formats are valid.
func ValidateOutputs(formats []string) error {
	for _, f := range formats {
		if err := ValidateOutput(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDuplicates checks that a duplicate policy is valid.
func ValidateDuplicates(p tree.DuplicatePolicy) error {
	if !tree.ValidDuplicatePolicies[p] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid duplicates policy: %q (must be one of: last, first)", p)
	}
	return nil
}

// ValidateInputFormat checks that a record input format is valid.
func ValidateInputFormat(format string) error {
	if !rio.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: auto, json, yaml, toml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = rio.FormatAuto
	}
	if err := ValidateInputFormat(o.Format); err != nil {
		return err
	}
	if o.RootPath != "" {
		if err := errors.ValidatePath(o.RootPath); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetBuildDefaults fills empty build fields.
func (o *Options) SetBuildDefaults() {
	t := o.TreeOptions()
	o.IDField, o.ParentField, o.Duplicates = t.IDField, t.ParentField, t.Duplicates
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForBuild validates and sets defaults for building.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if err := errors.ValidateFieldName(o.IDField); err != nil {
		return err
	}
	if err := errors.ValidateFieldName(o.ParentField); err != nil {
		return err
	}
	if o.IDField == o.ParentField {
		return errors.New(errors.ErrCodeInvalidField, "id and parent field must differ (both %q)", o.IDField)
	}
	return ValidateDuplicates(o.Duplicates)
}

// SetRenderDefaults fills empty render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Outputs) == 0 {
		o.Outputs = slices.Clone(DefaultOutputs)
	}
	if o.LabelField == "" {
		o.LabelField = glossary.FieldLabel
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateOutputs(o.Outputs)
}

// UseGlossaryFields switches empty field options to the glossary schema.
func (o *Options) UseGlossaryFields() {
	g := glossary.Options()
	if o.IDField == "" || o.IDField == tree.DefaultIDField {
		o.IDField = g.IDField
	}
	if o.ParentField == "" || o.ParentField == tree.DefaultParentField {
		o.ParentField = g.ParentField
	}
	if o.TypeField == "" {
		o.TypeField = glossary.FieldType
	}
}

// TreeOptions returns the tree build options.
func (o *Options) TreeOptions() tree.Options {
	return tree.Options{
		IDField:     o.IDField,
		ParentField: o.ParentField,
		Duplicates:  o.Duplicates,
	}.WithDefaults()
}

// ForestKeyOpts returns cache key options for forest building.
func (o *Options) ForestKeyOpts() cache.ForestKeyOpts {
	t := o.TreeOptions()
	return cache.ForestKeyOpts{
		IDField:     t.IDField,
		ParentField: t.ParentField,
		Duplicates:  string(t.Duplicates),
		RootPath:    o.RootPath,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	label := o.LabelField
	if o.TypeField != "" {
		label += "|" + o.TypeField
	}
	if o.Detailed {
		label += "|detailed"
	}
	return cache.ArtifactKeyOpts{Format: format, Label: label}
}

// String summarizes the source for log lines.
func (o *Options) String() string {
	switch {
	case o.Records != nil:
		return fmt.Sprintf("inline(%d)", len(o.Records))
	case o.Source != "":
		return o.Source
	case o.RootPath != "":
		return "store:" + o.RootPath
	default:
		return "store"
	}
}
