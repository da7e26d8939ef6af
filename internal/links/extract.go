package links

import (
	"regexp"
	"strings"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/nolink"
)

// These patterns are deliberately regex-driven over raw source text rather
// than goldmark's inline AST: angle-bracket destinations, balanced-paren
// tie-breaks, and checkbox-adjacency all need substring fidelity that an
// AST walk loses once it has decided what a node "is".
var (
	linkTextGroup = `((?:\\.|[^\[\]\\]|\[[^\[\]]*\])*)`
	destGroup     = `(<[^<>\n]*>|[^\s()]*(?:\([^\s()]*\))*[^\s()]*)`
	titleGroup    = `(?:\s+("[^"]*"|'[^']*'|\([^)]*\)))?`

	inlineLinkPattern = regexp.MustCompile(`\[` + linkTextGroup + `\]\(\s*` + destGroup + `?` + titleGroup + `\s*\)`)
	fullRefPattern    = regexp.MustCompile(`\[` + linkTextGroup + `\]\[([^\[\]]*)\]`)
	shortcutPattern   = regexp.MustCompile(`\[([^\[\]]*)\]`)
	definitionPattern = regexp.MustCompile(`^( {0,3})\[([^\]\^][^\]]*)\]:\s*(<[^<>]*>|\S+)` + titleGroup + `\s*$`)
	autolinkPattern   = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9+.\-]*:[^<>\s]*)>`)
	checkboxPattern   = regexp.MustCompile(`^\s*[-*+]\s+(\[[ xX]\])`)
)

// Extract scans doc for link occurrences in the order and with the
// precedence described by spec.md §4.6: inline links, reference links,
// definitions, autolinks. folders is the workspace folder list used by
// ResolveHref for absolute-path destinations.
func Extract(doc *mdtext.Document, noLink *nolink.Set, folders []mduri.URI) []MdLink {
	var inlineOut, refOut, defOut, autoOut []MdLink

	inlineRanges := scanInlineLinks(doc, noLink, folders, &inlineOut)
	scanReferenceLinks(doc, noLink.WithExtraRanges(inlineRanges), folders, &refOut)
	scanDefinitions(doc, noLink, folders, &defOut)
	scanAutolinks(doc, noLink, &autoOut)

	out := make([]MdLink, 0, len(inlineOut)+len(refOut)+len(defOut)+len(autoOut))
	out = append(out, inlineOut...)
	out = append(out, refOut...)
	out = append(out, defOut...)
	out = append(out, autoOut...)
	return out
}

func posRange(doc *mdtext.Document, lineStart, startByte, endByte int) mdtext.Range {
	return mdtext.Range{
		Start: doc.PositionAt(lineStart + startByte),
		End:   doc.PositionAt(lineStart + endByte),
	}
}

func scanInlineLinks(doc *mdtext.Document, noLink *nolink.Set, folders []mduri.URI, out *[]MdLink) []mdtext.Range {
	var emitted []mdtext.Range
	for line := 0; line < doc.LineCount(); line++ {
		text := doc.GetLine(line)
		lineStart := doc.LineStartOffset(line)
		for _, m := range inlineLinkPattern.FindAllStringSubmatchIndex(text, -1) {
			full := text[m[0]:m[1]]
			hrefRange := destSubmatchRange(doc, lineStart, text, m)
			if noLink.Contains(hrefRange.Start) {
				continue
			}
			if m[0] > 0 && text[m[0]-1] == '\\' {
				continue
			}
			linkText := groupOrEmpty(text, m, 2)
			dest := groupOrEmpty(text, m, 4)
			title := groupOrEmpty(text, m, 6)

			destStart, destEnd := -1, -1
			if m[4] >= 0 && m[5] >= 0 {
				destStart, destEnd = lineStart+m[4], lineStart+m[5]
			}

			src, href := buildSourceAbs(doc, lineStart+m[0], lineStart+m[1], destStart, destEnd, dest, title, folders)
			*out = append(*out, MdLink{Kind: KindLink, Source: src, Href: href})
			emitted = append(emitted, src.Range)

			_ = full
			_ = linkText
			// Recursively look for a nested inline link inside the text
			// portion (a hyperlinked image: "[![alt](img)](url)").
			if g := m[2]; g >= 0 {
				nestedBase := lineStart + g
				nestedText := text[m[2]:m[3]]
				for _, nm := range inlineLinkPattern.FindAllStringSubmatchIndex(nestedText, -1) {
					nDest := groupOrEmpty(nestedText, nm, 4)
					nTitle := groupOrEmpty(nestedText, nm, 6)
					nDestStart, nDestEnd := -1, -1
					if nm[4] >= 0 && nm[5] >= 0 {
						nDestStart, nDestEnd = nestedBase+nm[4], nestedBase+nm[5]
					}
					nSrc, nHref := buildSourceAbs(doc, nestedBase+nm[0], nestedBase+nm[1], nDestStart, nDestEnd, nDest, nTitle, folders)
					*out = append(*out, MdLink{Kind: KindLink, Source: nSrc, Href: nHref})
					emitted = append(emitted, nSrc.Range)
				}
			}
		}
	}
	return emitted
}

func scanReferenceLinks(doc *mdtext.Document, noLink *nolink.Set, folders []mduri.URI, out *[]MdLink) {
	for line := 0; line < doc.LineCount(); line++ {
		text := doc.GetLine(line)
		lineStart := doc.LineStartOffset(line)

		matchedRanges := map[[2]int]bool{}

		for _, m := range fullRefPattern.FindAllStringSubmatchIndex(text, -1) {
			if m[0] > 0 && text[m[0]-1] == '\\' {
				continue
			}
			start := doc.PositionAt(lineStart + m[0])
			if noLink.Contains(start) {
				continue
			}
			ref := groupOrEmpty(text, m, 4)
			if ref == "" {
				ref = groupOrEmpty(text, m, 2)
			}
			rng := posRange(doc, lineStart, m[0], m[1])
			hrefStart, hrefEnd := refBracketSpan(text, m, 4)
			href := Href{Kind: HrefReference, Ref: ref}
			src := LinkSource{
				Resource:  doc.URI,
				Range:     rng,
				HrefText:  ref,
				HrefRange: posRange(doc, lineStart, hrefStart, hrefEnd),
			}
			*out = append(*out, MdLink{Kind: KindLink, Source: src, Href: href})
			matchedRanges[[2]int{m[0], m[1]}] = true
		}

		for _, m := range shortcutPattern.FindAllStringSubmatchIndex(text, -1) {
			if matchedRanges[[2]int{m[0], m[1]}] {
				continue
			}
			overlapsExisting := false
			for r := range matchedRanges {
				if m[0] >= r[0] && m[0] < r[1] {
					overlapsExisting = true
					break
				}
			}
			if overlapsExisting {
				continue
			}
			if m[0] > 0 && text[m[0]-1] == '\\' {
				continue
			}
			if m[1] < len(text) && (text[m[1]] == ':' || text[m[1]] == '(') {
				continue
			}
			if checkboxCoincides(text, m[0]) {
				continue
			}
			start := doc.PositionAt(lineStart + m[0])
			if noLink.Contains(start) {
				continue
			}
			ref := groupOrEmpty(text, m, 2)
			src := LinkSource{
				Resource:  doc.URI,
				Range:     posRange(doc, lineStart, m[0], m[1]),
				HrefText:  ref,
				HrefRange: posRange(doc, lineStart, m[0]+1, m[1]-1),
			}
			*out = append(*out, MdLink{Kind: KindLink, Source: src, Href: Href{Kind: HrefReference, Ref: ref}})
		}
	}
}

func checkboxCoincides(line string, bracketStart int) bool {
	m := checkboxPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return false
	}
	return m[2] == bracketStart
}

func scanDefinitions(doc *mdtext.Document, noLink *nolink.Set, folders []mduri.URI, out *[]MdLink) []mdtext.Range {
	var emitted []mdtext.Range
	for line := 0; line < doc.LineCount(); line++ {
		text := doc.GetLine(line)
		lineStart := doc.LineStartOffset(line)
		m := definitionPattern.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		start := doc.PositionAt(lineStart)
		if noLink.Contains(start) {
			continue
		}
		refText := text[m[4]:m[5]]
		dest := groupOrEmpty(text, m, 6)
		title := groupOrEmpty(text, m, 8)

		destStart, destEnd := -1, -1
		if m[6] >= 0 && m[7] >= 0 {
			destStart, destEnd = lineStart+m[6], lineStart+m[7]
		}

		src, href := buildSourceAbs(doc, lineStart+m[0], lineStart+m[1], destStart, destEnd, dest, title, folders)
		src.TargetRange = src.Range
		refRange := posRange(doc, lineStart, m[4], m[5])

		*out = append(*out, MdLink{
			Kind:   KindDefinition,
			Source: src,
			Href:   href,
			Ref:    RefOccurrence{Text: refText, Range: refRange},
		})
		emitted = append(emitted, src.Range)
	}
	return emitted
}

func scanAutolinks(doc *mdtext.Document, noLink *nolink.Set, out *[]MdLink) {
	for line := 0; line < doc.LineCount(); line++ {
		text := doc.GetLine(line)
		lineStart := doc.LineStartOffset(line)
		for _, m := range autolinkPattern.FindAllStringSubmatchIndex(text, -1) {
			start := doc.PositionAt(lineStart + m[0])
			if noLink.Contains(start) {
				continue
			}
			dest := text[m[2]:m[3]]
			rng := posRange(doc, lineStart, m[0], m[1])
			hrefRange := posRange(doc, lineStart, m[2], m[3])
			src := LinkSource{
				Resource:  doc.URI,
				Range:     rng,
				TargetRange: rng,
				HrefText:  dest,
				PathText:  dest,
				HrefRange: hrefRange,
			}
			*out = append(*out, MdLink{
				Kind:   KindAutoLink,
				Source: src,
				Href:   Href{Kind: HrefExternal, URI: mduri.Parse(dest)},
			})
		}
	}
}

// buildSourceAbs constructs the LinkSource/Href pair for an inline link or
// definition match spanning absolute byte offsets [absStart, absEnd) in the
// document, with an already-extracted dest/title pair. destStart/destEnd are
// the absolute byte offsets of the raw destination group as matched by the
// regex (including any surrounding angle brackets), or -1 when the
// destination is empty/unmatched; they let hrefRange/fragmentRange narrow to
// the destination text itself instead of the whole link match.
func buildSourceAbs(doc *mdtext.Document, absStart, absEnd, destStart, destEnd int, dest, title string, folders []mduri.URI) (LinkSource, Href) {
	rng := mdtext.Range{Start: doc.PositionAt(absStart), End: doc.PositionAt(absEnd)}

	isAngle := strings.HasPrefix(dest, "<") && strings.HasSuffix(dest, ">")
	pathText := dest
	pathStart, pathEnd := destStart, destEnd
	if isAngle {
		pathText = strings.TrimSuffix(strings.TrimPrefix(dest, "<"), ">")
		if pathStart >= 0 && pathEnd >= 0 {
			pathStart++
			pathEnd--
		}
	}

	hrefRange := rng
	if pathStart >= 0 && pathEnd >= 0 {
		hrefRange = mdtext.Range{Start: doc.PositionAt(pathStart), End: doc.PositionAt(pathEnd)}
	}

	var fragmentRange *mdtext.Range
	fragText := ""
	if idx := strings.IndexByte(pathText, '#'); idx >= 0 {
		fragText = pathText[idx+1:]
		if pathStart >= 0 && pathEnd >= 0 {
			fr := mdtext.Range{Start: doc.PositionAt(pathStart + idx + 1), End: doc.PositionAt(pathEnd)}
			fragmentRange = &fr
		} else {
			fr := hrefRange
			fragmentRange = &fr
		}
	}

	var titleRange *mdtext.Range
	if title != "" {
		tr := rng
		titleRange = &tr
	}

	src := LinkSource{
		Resource:           doc.URI,
		Range:              rng,
		TargetRange:        rng,
		HrefText:           dest,
		PathText:           pathText,
		HrefRange:          hrefRange,
		FragmentRange:      fragmentRange,
		TitleRange:         titleRange,
		IsAngleBracketLink: isAngle,
	}

	href := ResolveHref(pathText, doc.URI, folders)
	_ = fragText
	return src, href
}

func groupOrEmpty(s string, m []int, idx int) string {
	if idx+1 >= len(m) || m[idx] < 0 || m[idx+1] < 0 {
		return ""
	}
	return s[m[idx]:m[idx+1]]
}

func destSubmatchRange(doc *mdtext.Document, lineStart int, text string, m []int) mdtext.Range {
	if m[4] >= 0 && m[5] >= 0 {
		return posRange(doc, lineStart, m[4], m[5])
	}
	return posRange(doc, lineStart, m[0], m[1])
}

func refBracketSpan(text string, m []int, group int) (int, int) {
	if m[group] >= 0 && m[group+1] >= 0 && m[group+1] > m[group] {
		return m[group], m[group+1]
	}
	return m[2], m[3]
}
