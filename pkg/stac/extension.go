package stac

import (
	"regexp"
	"sync"

	"github.com/goliatone/go-catalogform/internal/values"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

var (
	extensionPatternsMu sync.Mutex
	extensionPatterns   = map[string]*regexp.Regexp{}
)

func extensionPattern(extension string) *regexp.Regexp {
	extensionPatternsMu.Lock()
	defer extensionPatternsMu.Unlock()
	if re, ok := extensionPatterns[extension]; ok {
		return re
	}
	re := regexp.MustCompile(`/` + regexp.QuoteMeta(extension) + `/v([0-9.]+)/schema\.json`)
	extensionPatterns[extension] = re
	return re
}

// HasExtension reports whether data lists the named STAC extension in
// stac_extensions. When version is set it must accept the matched version.
func HasExtension(data any, extension string, version func(string) bool) bool {
	raw, ok := values.Lookup(data, "stac_extensions")
	if !ok {
		return false
	}
	list, ok := values.Normalize(raw).([]any)
	if !ok {
		return false
	}
	re := extensionPattern(extension)
	for _, item := range list {
		url, ok := item.(string)
		if !ok {
			continue
		}
		match := re.FindStringSubmatch(url)
		if match == nil {
			continue
		}
		if version == nil || version(match[1]) {
			return true
		}
	}
	return false
}

// AddExtensionOption registers a hook on the core plugin that appends the
// extension URL to the stac_extensions options.
func AddExtensionOption(b *plugin.Base, label, value string) {
	b.OnAfterEditSchema(CoreName, func(_ plugin.Plugin, _ any, result plugin.EditResult) plugin.EditResult {
		field, ok := result.Field()
		if !ok {
			return result
		}
		list := field.Properties["stac_extensions"]
		if list == nil || list.Items == nil {
			return result
		}
		list.Items.Enum = append(list.Items.Enum, schema.Option(value, label))
		return result
	})
}
