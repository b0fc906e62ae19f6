package pipeline

import (
	"testing"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"outline", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateOutput(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutput(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateOutputs(t *testing.T) {
	if err := ValidateOutputs([]string{"json", "svg"}); err != nil {
		t.Errorf("Valid outputs should pass: %v", err)
	}
	if err := ValidateOutputs([]string{"json", "pdf"}); err == nil {
		t.Error("Invalid output should fail")
	}
	if err := ValidateOutputs(nil); err != nil {
		t.Errorf("Empty outputs should pass: %v", err)
	}
}

func TestValidateDuplicates(t *testing.T) {
	tests := []struct {
		policy  tree.DuplicatePolicy
		wantErr bool
	}{
		{tree.LastWins, false},
		{tree.FirstWins, false},
		{"newest", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateDuplicates(tt.policy)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDuplicates(%q) error = %v, wantErr %v", tt.policy, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: "nodes.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.IDField != tree.DefaultIDField || opts.ParentField != tree.DefaultParentField {
		t.Errorf("fields = %q/%q, want defaults", opts.IDField, opts.ParentField)
	}
	if opts.Duplicates != tree.LastWins {
		t.Errorf("Duplicates = %q, want %q", opts.Duplicates, tree.LastWins)
	}
	if len(opts.Outputs) != 1 || opts.Outputs[0] != "json" {
		t.Errorf("Outputs = %v, want [json]", opts.Outputs)
	}
	if opts.Format != "auto" {
		t.Errorf("Format = %q, want auto", opts.Format)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"BadIDField", Options{IDField: "1bad"}, errors.ErrCodeInvalidField},
		{"SameFields", Options{IDField: "id", ParentField: "id"}, errors.ErrCodeInvalidField},
		{"BadDuplicates", Options{Duplicates: "random"}, errors.ErrCodeInvalidInput},
		{"BadOutput", Options{Outputs: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"BadFormat", Options{Format: "csv"}, errors.ErrCodeInvalidFormat},
		{"RelativeRoot", Options{RootPath: "g1/c1"}, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("ValidateAndSetDefaults() expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestUseGlossaryFields(t *testing.T) {
	opts := Options{}
	opts.UseGlossaryFields()
	if opts.IDField != "nodeUri" || opts.ParentField != "parentUri" || opts.TypeField != "__typename" {
		t.Errorf("glossary fields = %q/%q/%q", opts.IDField, opts.ParentField, opts.TypeField)
	}

	custom := Options{IDField: "uri"}
	custom.UseGlossaryFields()
	if custom.IDField != "uri" {
		t.Errorf("explicit IDField overwritten: %q", custom.IDField)
	}
}

func TestKeyOpts(t *testing.T) {
	a := Options{}
	b := Options{Duplicates: tree.FirstWins}
	if a.ForestKeyOpts() == b.ForestKeyOpts() {
		t.Error("duplicate policy should change the forest key")
	}
	if a.ForestKeyOpts() != (&Options{IDField: "id", ParentField: "parentId", Duplicates: "last"}).ForestKeyOpts() {
		t.Error("explicit defaults should produce the same forest key as empty options")
	}

	plain := Options{LabelField: "label"}
	detailed := Options{LabelField: "label", Detailed: true}
	if plain.ArtifactKeyOpts("dot") == detailed.ArtifactKeyOpts("dot") {
		t.Error("Detailed should change the artifact key")
	}
}
