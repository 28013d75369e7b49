package templates

import (
	"reflect"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// funcMap returns the helpers available to every template. Nothing here
// reads the clock or a random source, so output depends only on the context.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"title":   title,
		"replace": replace,
		"default": defaultValue,
	}
}

// title upper-cases the first letter of each word. A Caser keeps state, so
// one is created per call.
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// replace takes the subject last so it can end a pipeline:
//
//	{{ .app_name | replace "_" "-" }}
func replace(from, to, s string) string {
	return strings.ReplaceAll(s, from, to)
}

// defaultValue returns def when v is nil or empty.
//
//	{{ .owner | default "nobody" }}
func defaultValue(def, v any) any {
	if v == nil {
		return def
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		if rv.Len() == 0 {
			return def
		}
	default:
		if rv.IsZero() {
			return def
		}
	}
	return v
}
