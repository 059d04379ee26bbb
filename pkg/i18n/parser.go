package i18n

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes one translation file into language-keyed trees.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)
}

// NewParserForFile returns a parser for the file extension, or nil.
func NewParserForFile(filename string) Parser {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return nil
	}
	switch strings.ToLower(filename[idx+1:]) {
	case "yaml", "yml":
		return YAMLParser{}
	default:
		return nil
	}
}

// YAMLParser expects the language codes as top-level keys:
//
//	ja:
//	  account:
//	    password:
//	      updated: パスワード更新が完了しました
type YAMLParser struct{}

func (YAMLParser) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if len(data) == 0 {
		return nil, ErrNoTranslations
	}

	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrFailedToParseYAML, lang, val)
		}
		result[lang] = tree
	}
	return result, nil
}
