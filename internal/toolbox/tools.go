// Package toolbox exposes the drafting capabilities to the model as
// pollytool tools bound to a session's document store.
package toolbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"pkdindustries/drafter/internal/document"
	"pkdindustries/drafter/internal/transcribe"
)

const (
	UpdateToolName     = "update"
	SaveToolName       = "save"
	TranscribeToolName = "transcribe"

	// DocumentExtension is appended to saved file names that lack it.
	DocumentExtension = ".txt"
)

// baseTool provides the bookkeeping methods shared by the native tools
type baseTool struct{}

func (t *baseTool) SetContext(ctx any) {}
func (t *baseTool) GetType() string    { return "native" }
func (t *baseTool) GetSource() string  { return "builtin" }

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	return s, nil
}

// UpdateTool replaces the draft with new content
type UpdateTool struct {
	baseTool
	store *document.Store
}

func NewUpdateTool(store *document.Store) *UpdateTool {
	return &UpdateTool{store: store}
}

func (t *UpdateTool) GetName() string { return UpdateToolName }

func (t *UpdateTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       UpdateToolName,
		Description: "Updates the document with the provided content. Always pass the complete new document, not a fragment.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"content": {
				Type:        "string",
				Description: "The full content the document should contain",
			},
		},
		Required: []string{"content"},
	}
}

func (t *UpdateTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	content, err := stringArg(args, "content")
	if err != nil {
		return "", err
	}
	return t.store.Replace(content), nil
}

// SaveTool writes the draft to a text file
type SaveTool struct {
	baseTool
	store *document.Store
	dir   string
}

func NewSaveTool(store *document.Store, dir string) *SaveTool {
	return &SaveTool{store: store, dir: dir}
}

func (t *SaveTool) GetName() string { return SaveToolName }

func (t *SaveTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       SaveToolName,
		Description: "Save the current document to a text file and finish the process.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"filename": {
				Type:        "string",
				Description: "Name for the text file; .txt is added when missing",
			},
		},
		Required: []string{"filename"},
	}
}

// NormalizeFilename appends the document extension when it is missing.
func NormalizeFilename(filename string) string {
	if !strings.HasSuffix(filename, DocumentExtension) {
		return filename + DocumentExtension
	}
	return filename
}

// Path resolves the file a save of filename writes to.
func (t *SaveTool) Path(filename string) string {
	filename = NormalizeFilename(filename)
	if t.dir != "" && !filepath.IsAbs(filename) {
		return filepath.Join(t.dir, filename)
	}
	return filename
}

// Execute never returns an error: write failures are reported as text so
// the conversation can carry on.
func (t *SaveTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	filename, err := stringArg(args, "filename")
	if err != nil {
		return fmt.Sprintf("Error saving document: %v", err), nil
	}
	path := t.Path(filename)
	if err := writeFile(path, t.store.Read()); err != nil {
		return "Error saving document: " + saveFailure(err), nil
	}
	return fmt.Sprintf(savedFormat, path), nil
}

const (
	savedPrefix = "Document has been saved successfully to '"
	savedSuffix = "'."
	savedFormat = savedPrefix + "%s" + savedSuffix
)

// SavedPath extracts the file path from a successful save result.
func SavedPath(result string) (string, bool) {
	if !strings.HasPrefix(result, savedPrefix) || !strings.HasSuffix(result, savedSuffix) {
		return "", false
	}
	return result[len(savedPrefix) : len(result)-len(savedSuffix)], true
}

// saveFailure describes a failed write without the path, which may itself
// contain the words of a successful save.
func saveFailure(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Op + ": " + pe.Err.Error()
	}
	return err.Error()
}

func writeFile(path, content string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = f.WriteString(content)
	return err
}

// TranscribeTool converts a recorded audio file into text
type TranscribeTool struct {
	baseTool
	transcriber transcribe.Transcriber
}

func NewTranscribeTool(transcriber transcribe.Transcriber) *TranscribeTool {
	return &TranscribeTool{transcriber: transcriber}
}

func (t *TranscribeTool) GetName() string { return TranscribeToolName }

func (t *TranscribeTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       TranscribeToolName,
		Description: "Transcribe a recorded audio file (mp3, wav, m4a) to text.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"audio": {
				Type:        "string",
				Description: "Path of the audio file to transcribe",
			},
			"format": {
				Type:        "string",
				Description: "Optional audio format hint such as wav or mp3",
			},
		},
		Required: []string{"audio"},
	}
}

// Execute converts every failure, including a panicking backend, into an
// error text result.
func (t *TranscribeTool) Execute(ctx context.Context, args map[string]any) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = fmt.Sprintf("Error transcribing audio: %v", r), nil
		}
	}()

	path, argErr := stringArg(args, "audio")
	if argErr != nil {
		return fmt.Sprintf("Error transcribing audio: %v", argErr), nil
	}
	format, _ := args["format"].(string)

	text, terr := t.transcriber.Transcribe(ctx, transcribe.Audio{Path: path, Format: format})
	if terr != nil {
		return fmt.Sprintf("Error transcribing audio: %v", terr), nil
	}
	return text, nil
}
