package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/hypermatch/internal/compiler"
	"github.com/roach88/hypermatch/internal/query"
)

// LoadResult contains the documents loaded from a directory.
type LoadResult struct {
	Document  query.Document
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred while loading documents.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDocuments builds the CUE package in dir and compiles its atoms and
// queries. The returned error is always a *LoadError.
func LoadDocuments(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("graph directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing graph directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	value, err := compiler.LoadDir(dir)
	if err != nil {
		loadErr := convertCompileError(err, "load")
		if loadErr.Code == ErrCodeGeneric {
			loadErr.Code = ErrCodeLoadFailed
		}
		return nil, loadErr
	}

	doc, err := compiler.CompileDocument(value)
	if err != nil {
		return nil, convertCompileError(err, "compile")
	}

	return &LoadResult{Document: doc, FileCount: len(cueFiles)}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Document errors
	ErrCodeInvalidAtom = "E101" // Malformed ground atom
	ErrCodeInvalidTerm = "E102" // Malformed query term

	// Query errors
	ErrCodeQueryInvalid  = "E110" // Query failed validation
	ErrCodeQueryNotFound = "E111" // Named query not defined
	ErrCodeUnheldType    = "E112" // No document link holds a member of this type
	ErrCodeStoreFailed   = "E120" // Database open or write failed
	ErrCodeMatchFailed   = "E121" // Matching stopped with an error
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "atoms" || strings.HasPrefix(field, "atoms.") || strings.HasPrefix(field, "atoms["):
		return ErrCodeInvalidAtom
	case field == "queries" || strings.HasPrefix(field, "queries."):
		return ErrCodeInvalidTerm
	case field == "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}
