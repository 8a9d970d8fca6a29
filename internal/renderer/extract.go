package renderer

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/brandscan/brandscan/internal/model"
)

// nodeState carries the ancestry context that changes how an element's
// observations are tagged. It is passed by value so sibling subtrees
// cannot leak state into each other.
type nodeState struct {
	// inHeader is true inside <header>, <nav>, or an element whose
	// id/class names a header region.
	inHeader bool

	// inHero is true inside the hero section.
	inHero bool

	// headingLevel is 1-6 inside an h1-h6 subtree, 0 otherwise.
	headingLevel int

	// hidden is true inside a subtree removed from rendering.
	hidden bool
}

// extractor accumulates page signals over one DOM walk.
type extractor struct {
	base      *url.URL
	viewportW float64
	viewportH float64
	signals   *model.PageSignals

	snapshot    strings.Builder
	svgSeq      int
	wantTagline bool
	faviconSeen map[string]bool
}

// finish applies post-walk bounds to the collected signals.
func (e *extractor) finish() {
	e.signals.Snapshot = strings.TrimSpace(e.snapshot.String())
	e.signals.TruncateSnapshot()
}

// walk visits the DOM depth-first, updating state on the way down and
// emitting observations per element.
func (e *extractor) walk(n *html.Node, st nodeState) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "noscript", "template", "iframe":
			return
		case "style":
			e.stylesheet(textContent(n))
			return
		case "svg":
			e.inlineSVG(n, st)
			return
		}
		st = e.element(n, st)
	}

	if n.Type == html.TextNode && !st.hidden {
		if text := collapseSpace(n.Data); text != "" {
			if e.snapshot.Len() > 0 {
				e.snapshot.WriteByte(' ')
			}
			e.snapshot.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c, st)
	}
}

// element emits observations for one element and returns the state its
// children inherit.
func (e *extractor) element(n *html.Node, st nodeState) nodeState {
	props := parseStyle(getAttr(n, "style"))
	class := strings.ToLower(getAttr(n, "class"))
	id := strings.ToLower(getAttr(n, "id"))

	if isHidden(n, props) {
		st.hidden = true
	}
	if n.Data == "header" || n.Data == "nav" ||
		strings.Contains(class, "header") || strings.Contains(class, "navbar") ||
		strings.Contains(id, "header") {
		st.inHeader = true
	}
	if strings.Contains(class, "hero") || strings.Contains(id, "hero") {
		st.inHero = true
	}
	if level := headingLevel(n.Data); level > 0 {
		st.headingLevel = level
	}

	switch n.Data {
	case "title":
		if e.signals.Hero.Title == "" {
			e.signals.Hero.Title = collapseSpace(textContent(n))
		}
	case "meta":
		e.meta(n)
	case "link":
		e.linkElement(n)
	case "img":
		e.image(n, st)
	case "h1":
		if e.signals.Hero.Headline == "" {
			e.signals.Hero.Headline = collapseSpace(textContent(n))
			e.wantTagline = e.signals.Hero.Headline != ""
		}
	case "h2", "p":
		if e.wantTagline {
			if tagline := collapseSpace(textContent(n)); tagline != "" {
				e.signals.Hero.Tagline = tagline
				e.wantTagline = false
			}
		}
	}

	e.elementColors(n, st, props, class)
	e.elementFonts(n, st, props)
	return st
}

// elementColors emits the color candidates an element contributes.
func (e *extractor) elementColors(n *html.Node, st nodeState, props map[string]string, class string) {
	visible := !st.hidden
	accent := isAccentLike(class)
	button := isButtonLike(n, class)

	if bg := backgroundColor(n, props); bg != "" {
		candidate := model.ColorCandidate{
			Hex:      bg,
			Area:     e.area(n, props),
			Visible:  visible,
			InHeader: st.inHeader,
		}
		switch {
		case accent:
			candidate.Category = model.CategoryAccent
		case button:
			candidate.Category = model.CategoryButton
		default:
			candidate.Category = model.CategoryBackground
			candidate.Hero = st.inHero || n.Data == "body"
		}
		e.signals.Colors = append(e.signals.Colors, candidate)
	}

	if fg := props["color"]; fg != "" {
		candidate := model.ColorCandidate{
			Hex:      fg,
			Visible:  visible,
			InHeader: st.inHeader,
		}
		switch {
		case n.Data == "a" && !button:
			candidate.Category = model.CategoryLink
		case accent:
			candidate.Category = model.CategoryAccent
		default:
			candidate.Category = model.CategoryText
		}
		e.signals.Colors = append(e.signals.Colors, candidate)
	}

	if border := borderColor(props); border != "" {
		e.signals.Colors = append(e.signals.Colors, model.ColorCandidate{
			Hex:      border,
			Category: model.CategoryBorder,
			Visible:  visible,
			InHeader: st.inHeader,
		})
	}
}

// elementFonts emits font usages when the element declares a family
// inline. Role follows ancestry: heading inside h1-h6, body on
// text-bearing elements in the readable size range.
func (e *extractor) elementFonts(n *html.Node, st nodeState, props map[string]string) {
	family := props["font-family"]
	if family == "" {
		return
	}
	size := props["font-size"]
	weight := props["font-weight"]

	if st.headingLevel > 0 {
		e.signals.Fonts = append(e.signals.Fonts, model.FontUsage{
			Family: family,
			Role:   model.RoleHeading,
			Size:   size,
			Weight: weight,
		})
		return
	}
	if isTextBearing(n.Data) && bodySizeOK(size) {
		e.signals.Fonts = append(e.signals.Fonts, model.FontUsage{
			Family: family,
			Role:   model.RoleBody,
			Size:   size,
			Weight: weight,
		})
	}
}

// meta reads the description and theme-color tags. A declared
// theme-color is a deliberate brand statement, so it enters scoring as
// an accent candidate.
func (e *extractor) meta(n *html.Node) {
	name := strings.ToLower(getAttr(n, "name"))
	content := getAttr(n, "content")
	switch name {
	case "description":
		if e.signals.Hero.MetaDescription == "" {
			e.signals.Hero.MetaDescription = collapseSpace(content)
		}
	case "theme-color":
		if content != "" {
			e.signals.Colors = append(e.signals.Colors, model.ColorCandidate{
				Hex:      content,
				Category: model.CategoryAccent,
				Visible:  true,
			})
		}
	}
}

// linkElement collects favicon references.
func (e *extractor) linkElement(n *html.Node) {
	rel := strings.ToLower(getAttr(n, "rel"))
	if !strings.Contains(rel, "icon") {
		return
	}
	href := e.resolveURL(getAttr(n, "href"))
	if href == "" {
		return
	}
	if e.faviconSeen == nil {
		e.faviconSeen = make(map[string]bool)
	}
	if e.faviconSeen[href] {
		return
	}
	e.faviconSeen[href] = true

	width, height := sizeAttr(getAttr(n, "sizes"))
	e.signals.Logos = append(e.signals.Logos, model.LogoCandidate{
		Kind:   model.LogoKindFavicon,
		Src:    href,
		Width:  width,
		Height: height,
		Format: formatFromPath(href),
	})
}

// image collects <img> logo candidates. Every image is a candidate;
// ranking, not extraction, decides which one is the logo.
func (e *extractor) image(n *html.Node, st nodeState) {
	src := e.resolveURL(getAttr(n, "src"))
	if src == "" {
		return
	}
	haystack := strings.ToLower(strings.Join([]string{
		getAttr(n, "src"), getAttr(n, "alt"), getAttr(n, "class"), getAttr(n, "id"),
	}, " "))

	e.signals.Logos = append(e.signals.Logos, model.LogoCandidate{
		Kind:           model.LogoKindImage,
		Src:            src,
		Width:          dimensionAttr(n, "width"),
		Height:         dimensionAttr(n, "height"),
		InHeader:       st.inHeader,
		HasLogoKeyword: strings.Contains(haystack, "logo"),
		Format:         formatFromPath(src),
	})
}

// inlineSVG records one logo candidate for the <svg> element and a
// color candidate per distinct fill/stroke inside it. The subtree is
// not walked further; SVG internals carry no text or font signal.
func (e *extractor) inlineSVG(n *html.Node, st nodeState) {
	src := fmt.Sprintf("inline-svg-%d", e.svgSeq)
	e.svgSeq++

	haystack := strings.ToLower(strings.Join([]string{
		getAttr(n, "class"), getAttr(n, "id"), getAttr(n, "aria-label"), svgTitle(n),
	}, " "))

	e.signals.Logos = append(e.signals.Logos, model.LogoCandidate{
		Kind:           model.LogoKindSVG,
		Src:            src,
		Width:          dimensionAttr(n, "width"),
		Height:         dimensionAttr(n, "height"),
		InHeader:       st.inHeader,
		HasLogoKeyword: strings.Contains(haystack, "logo"),
		Format:         model.FormatSVG,
	})

	seen := make(map[string]bool)
	var fills func(*html.Node)
	fills = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, attr := range []string{"fill", "stroke"} {
				value := getAttr(node, attr)
				if value == "" || value == "none" || value == "currentColor" || seen[value] {
					continue
				}
				seen[value] = true
				e.signals.Colors = append(e.signals.Colors, model.ColorCandidate{
					Hex:      value,
					Category: model.CategorySVG,
					Visible:  !st.hidden,
					InHeader: st.inHeader,
				})
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			fills(c)
		}
	}
	fills(n)
}

// styleRule matches one "selector { declarations }" block. Nested
// at-rules are not resolved; their inner rules still match, which is
// good enough for candidate extraction.
var styleRule = regexp.MustCompile(`(?s)([^{}]+)\{([^{}]*)\}`)

// stylesheet extracts candidates from an embedded <style> block. The
// selector decides the category the same way element ancestry does for
// inline styles.
func (e *extractor) stylesheet(css string) {
	for _, match := range styleRule.FindAllStringSubmatch(css, -1) {
		selector := strings.ToLower(strings.TrimSpace(match[1]))
		props := parseStyle(match[2])
		if strings.HasPrefix(selector, "@") {
			continue
		}

		buttonSel := strings.Contains(selector, "button") || strings.Contains(selector, ".btn")
		linkSel := selectorTargets(selector, "a")
		rootSel := selectorTargets(selector, "body") || selectorTargets(selector, "html") ||
			strings.Contains(selector, ":root")
		headingSel := selectorTargetsHeading(selector)

		if bg := cssBackgroundColor(props); bg != "" {
			candidate := model.ColorCandidate{Hex: bg, Visible: true}
			switch {
			case buttonSel:
				candidate.Category = model.CategoryButton
			case rootSel:
				candidate.Category = model.CategoryBackground
				candidate.Area = e.viewportW * e.viewportH
				candidate.Hero = true
			default:
				candidate.Category = model.CategoryBackground
			}
			e.signals.Colors = append(e.signals.Colors, candidate)
		}
		if fg := props["color"]; fg != "" {
			candidate := model.ColorCandidate{Hex: fg, Visible: true}
			switch {
			case linkSel:
				candidate.Category = model.CategoryLink
			case buttonSel:
				candidate.Category = model.CategoryButton
			default:
				candidate.Category = model.CategoryText
			}
			e.signals.Colors = append(e.signals.Colors, candidate)
		}
		if border := borderColor(props); border != "" {
			e.signals.Colors = append(e.signals.Colors, model.ColorCandidate{
				Hex:      border,
				Category: model.CategoryBorder,
				Visible:  true,
			})
		}

		if family := props["font-family"]; family != "" {
			role := model.RoleBody
			if headingSel {
				role = model.RoleHeading
			}
			if role == model.RoleHeading || bodySizeOK(props["font-size"]) {
				e.signals.Fonts = append(e.signals.Fonts, model.FontUsage{
					Family: family,
					Role:   role,
					Size:   props["font-size"],
					Weight: props["font-weight"],
				})
			}
		}
	}
}

// area estimates an element's rendered area in square pixels. The body
// is assumed to fill the viewport; other elements need explicit
// dimensions, otherwise the area is unknown and reported as zero.
func (e *extractor) area(n *html.Node, props map[string]string) float64 {
	if n.Data == "body" || n.Data == "html" {
		return e.viewportW * e.viewportH
	}
	width := dimensionAttr(n, "width")
	if width == 0 {
		width = parsePixels(props["width"])
	}
	height := dimensionAttr(n, "height")
	if height == 0 {
		height = parsePixels(props["height"])
	}
	if width > 0 && height > 0 {
		return width * height
	}
	return 0
}

// resolveURL resolves a reference against the page URL.
func (e *extractor) resolveURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}
	if e.base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return e.base.ResolveReference(parsed).String()
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// textContent returns the concatenated text of a subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// svgTitle returns the text of the first <title> child of an SVG, the
// accessible name most logo SVGs carry.
func svgTitle(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "title" {
			return textContent(c)
		}
	}
	return ""
}

// collapseSpace trims and collapses runs of whitespace to one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseStyle parses a CSS declaration list into a property map.
// Property names are lowercased; values keep their case because color
// keywords and font names are matched case-insensitively downstream.
func parseStyle(style string) map[string]string {
	if strings.TrimSpace(style) == "" {
		return nil
	}
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name != "" && value != "" {
			props[name] = value
		}
	}
	return props
}

// backgroundColor resolves an element's background from its style
// properties or the legacy bgcolor attribute.
func backgroundColor(n *html.Node, props map[string]string) string {
	if bg := cssBackgroundColor(props); bg != "" {
		return bg
	}
	return getAttr(n, "bgcolor")
}

// cssBackgroundColor prefers background-color and falls back to the
// first color-looking token of the background shorthand.
func cssBackgroundColor(props map[string]string) string {
	if bg, ok := props["background-color"]; ok {
		return bg
	}
	return firstColorToken(props["background"])
}

// borderColor prefers border-color and falls back to the color token of
// the border shorthand.
func borderColor(props map[string]string) string {
	if border, ok := props["border-color"]; ok {
		return border
	}
	return firstColorToken(props["border"])
}

// firstColorToken scans a shorthand value for the first token that
// looks like a color literal. Keyword colors other than named CSS
// functions are not recognized here; the engine would drop most of
// them anyway.
func firstColorToken(value string) string {
	for _, token := range strings.Fields(value) {
		lower := strings.ToLower(token)
		if strings.HasPrefix(lower, "#") ||
			strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
			return token
		}
	}
	return ""
}

// isHidden reports whether the element is removed from rendering.
func isHidden(n *html.Node, props map[string]string) bool {
	if getAttr(n, "hidden") != "" {
		return true
	}
	if strings.EqualFold(props["display"], "none") {
		return true
	}
	return strings.EqualFold(props["visibility"], "hidden")
}

// isButtonLike reports whether the element is a button for color
// categorization: real buttons, submit inputs, and anchors styled as
// buttons.
func isButtonLike(n *html.Node, class string) bool {
	switch n.Data {
	case "button":
		return true
	case "input":
		t := strings.ToLower(getAttr(n, "type"))
		return t == "submit" || t == "button"
	case "a":
		return strings.Contains(class, "btn") || strings.Contains(class, "button")
	}
	return false
}

// isAccentLike reports whether the element's class names an accent-type
// component.
func isAccentLike(class string) bool {
	for _, keyword := range []string{"accent", "badge", "highlight", "pill", "tag", "callout"} {
		if strings.Contains(class, keyword) {
			return true
		}
	}
	return false
}

// isTextBearing reports whether a tag typically carries body copy.
func isTextBearing(tag string) bool {
	switch tag {
	case "p", "span", "li", "td", "div", "body", "a", "blockquote", "label", "dd", "dt":
		return true
	}
	return false
}

// headingLevel returns 1-6 for h1-h6, 0 otherwise.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// bodySizeOK reports whether a font size is in the readable body range
// of 12-24px. An absent size passes; browsers default to 16px.
func bodySizeOK(size string) bool {
	if size == "" {
		return true
	}
	px := parsePixels(size)
	if px == 0 {
		// Non-pixel units are not resolved; accept rather than drop.
		return true
	}
	return px >= 12 && px <= 24
}

// parsePixels parses a "123px" or bare numeric length, returning 0 when
// the value uses another unit or is malformed.
func parsePixels(value string) float64 {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "px"))
	if value == "" {
		return 0
	}
	px, err := strconv.ParseFloat(value, 64)
	if err != nil || px < 0 {
		return 0
	}
	return px
}

// dimensionAttr parses a numeric width/height attribute.
func dimensionAttr(n *html.Node, name string) float64 {
	return parsePixels(getAttr(n, name))
}

// sizeAttr parses a favicon sizes attribute like "32x32". Only the
// first size is used.
func sizeAttr(sizes string) (width, height float64) {
	first, _, _ := strings.Cut(strings.TrimSpace(sizes), " ")
	w, h, ok := strings.Cut(strings.ToLower(first), "x")
	if !ok {
		return 0, 0
	}
	return parsePixels(w), parsePixels(h)
}

// formatFromPath detects a logo format from the URI path extension.
func formatFromPath(src string) model.LogoFormat {
	path := src
	if parsed, err := url.Parse(src); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".svg"):
		return model.FormatSVG
	case strings.HasSuffix(strings.ToLower(path), ".png"):
		return model.FormatPNG
	default:
		return model.FormatOther
	}
}

// selectorTargets reports whether a selector list contains the bare tag
// as its final simple selector (e.g. "a", "nav a", "a:hover").
func selectorTargets(selector, tag string) bool {
	for _, part := range strings.Split(selector, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if pseudo, _, ok := strings.Cut(last, ":"); ok {
			last = pseudo
		}
		if last == tag {
			return true
		}
	}
	return false
}

// selectorTargetsHeading reports whether any selector in the list
// targets an h1-h6 element.
func selectorTargetsHeading(selector string) bool {
	for level := '1'; level <= '6'; level++ {
		if selectorTargets(selector, "h"+string(level)) {
			return true
		}
	}
	return false
}
