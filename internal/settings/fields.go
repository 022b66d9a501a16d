package settings

import (
	"regexp"
	"strings"
)

// Target identifies the backing file a field lives in.
type Target int

const (
	StyleSheet Target = iota
	ClientScript
)

func (t Target) String() string {
	switch t {
	case StyleSheet:
		return "style_sheet"
	case ClientScript:
		return "client_script"
	default:
		return "unknown"
	}
}

// Field maps one setting to a location inside its backing file.
type Field interface {
	Name() string
	Target() Target
	// Read returns the current value token of the first match.
	Read(content string) (string, bool)
	// Patch replaces the value token of every match, leaving all other bytes untouched.
	// It reports false when the scaffold is absent and content is returned unchanged.
	Patch(content, value string) (string, bool)
}

// tokenField is a Field whose value tokens are capture groups of one pattern.
type tokenField struct {
	name   string
	target Target
	re     *regexp.Regexp
	groups []int // ascending capture group indexes holding the value
}

func (f *tokenField) Name() string   { return f.name }
func (f *tokenField) Target() Target { return f.target }

func (f *tokenField) Read(content string) (string, bool) {
	m := f.re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[f.groups[0]]), true
}

func (f *tokenField) Patch(content, value string) (string, bool) {
	matches := f.re.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, false
	}

	var b strings.Builder
	b.Grow(len(content) + len(matches)*len(f.groups)*len(value))
	last := 0
	for _, m := range matches {
		for _, g := range f.groups {
			start, end := m[2*g], m[2*g+1]
			if start < 0 {
				continue
			}
			b.WriteString(content[last:start])
			b.WriteString(value)
			last = end
		}
	}
	b.WriteString(content[last:])
	return b.String(), true
}

// Field names, matching the form and JSON keys.
const (
	FieldImageWidth  = "image_width"
	FieldImageMargin = "image_margin"
	FieldMaxImages   = "max_images"
	FieldBackground  = "background_image"
)

// displayRule builds a field for a declaration inside the `#doodleDisplay img` rule.
// The property must start a declaration, so `max-width` never matches `width`.
func displayRule(name, property string) Field {
	return &tokenField{
		name:   name,
		target: StyleSheet,
		re: regexp.MustCompile(
			`(#doodleDisplay\s+img\s*\{(?:[^}]*?[;{\s])?` + regexp.QuoteMeta(property) + `\s*:\s*)([^;}]+)(;)`),
		groups: []int{2},
	}
}

// Schema is the fixed set of fields shared by the Patcher and the Reader.
type Schema struct {
	ImageWidth  Field
	ImageMargin Field
	MaxImages   Field
	Background  Field
}

// NewSchema builds the schema. publicPrefix is the URL prefix of the static tree and
// locates the background rule, e.g. url("/static/background/background_image.jpg").
func NewSchema(publicPrefix string) *Schema {
	prefix := "/" + strings.Trim(publicPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	return &Schema{
		ImageWidth:  displayRule(FieldImageWidth, "width"),
		ImageMargin: displayRule(FieldImageMargin, "margin"),
		MaxImages: &tokenField{
			name:   FieldMaxImages,
			target: ClientScript,
			re: regexp.MustCompile(
				`(const\s+maxImages\s*=\s*parseInt\(document\.body\.dataset\.maxImages,\s*)(\d+)(\)\s*\|\|\s*)(\d+)(\s*;)`),
			groups: []int{2, 4},
		},
		Background: &tokenField{
			name:   FieldBackground,
			target: StyleSheet,
			re: regexp.MustCompile(
				`(url\("` + regexp.QuoteMeta(prefix+"/background/") + `)([^"]*)("\))`),
			groups: []int{2},
		},
	}
}

// Fields returns every field in a stable order.
func (s *Schema) Fields() []Field {
	return []Field{s.ImageWidth, s.ImageMargin, s.MaxImages, s.Background}
}
