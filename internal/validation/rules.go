package validation

import (
	"fmt"
	"strings"
)

// Rule is one independent check in the battery. Check must be total and must
// not mutate the tree; findings follow document order.
type Rule struct {
	ID    string
	Name  string
	Check func(root Node) []Issue
}

// DefaultRules returns the rule battery in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "image-alt", Name: "Images have alt attributes", Check: checkImageAlt},
		{ID: "form-label", Name: "Form controls have labels", Check: checkFormLabels},
		{ID: "heading-order", Name: "Heading levels do not skip", Check: checkHeadingOrder},
		{ID: "html-lang", Name: "Document declares a language", Check: checkHTMLLang},
		{ID: "link-name", Name: "Links have accessible text", Check: checkEmptyLinks},
		{ID: "click-keyboard", Name: "Clickable elements are keyboard reachable", Check: checkClickables},
		{ID: "document-title", Name: "Document has a title", Check: checkTitle},
		{ID: "table-caption", Name: "Tables have a caption or label", Check: checkTableCaptions},
		{ID: "media-autoplay", Name: "Media does not autoplay", Check: checkAutoplay},
		{ID: "landmark-main", Name: "Document has a main landmark", Check: checkMainLandmark},
		{ID: "link-new-window", Name: "New-window links warn the user", Check: checkNewWindowLinks},
	}
}

func issue(rule string, sev Severity, msg, element string) Issue {
	return Issue{Severity: sev, Message: msg, Element: element, Rule: rule}
}

func checkImageAlt(root Node) []Issue {
	var issues []Issue
	for _, img := range root.Find("img") {
		if _, ok := img.Attr("alt"); ok {
			continue
		}
		issues = append(issues, issue("image-alt", SeverityError,
			"Image missing alt attribute",
			fmt.Sprintf(`<img src="%s">`, attrOrEmpty(img, "src"))))
	}
	return issues
}

func checkFormLabels(root Node) []Issue {
	var issues []Issue
	for _, ctrl := range root.Find("input, select, textarea") {
		typ, hasType := ctrl.Attr("type")
		if ctrl.Tag() == "input" && strings.EqualFold(strings.TrimSpace(typ), "hidden") {
			continue
		}
		if hasLabel(root, ctrl) {
			continue
		}
		element := "<" + ctrl.Tag()
		if hasType && typ != "" {
			element += fmt.Sprintf(` type="%s"`, typ)
		}
		element += ">"
		issues = append(issues, issue("form-label", SeverityError, "Form control missing label", element))
	}
	return issues
}

func hasLabel(root, ctrl Node) bool {
	for _, attr := range []string{"aria-label", "aria-labelledby", "title"} {
		if _, ok := ctrl.Attr(attr); ok {
			return true
		}
	}
	if id := attrOrEmpty(ctrl, "id"); id != "" {
		for _, label := range root.Find("label[for]") {
			if attrOrEmpty(label, "for") == id {
				return true
			}
		}
	}
	_, wrapped := ctrl.Closest("label")
	return wrapped
}

func checkHeadingOrder(root Node) []Issue {
	var issues []Issue
	prev := 0
	for i, h := range root.Find("h1, h2, h3, h4, h5, h6") {
		level := int(h.Tag()[1] - '0')
		if i > 0 && level > prev+1 {
			issues = append(issues, issue("heading-order", SeverityWarning,
				fmt.Sprintf("Heading level skipped (h%d to h%d)", prev, level),
				"<"+h.Tag()+">"))
		}
		prev = level
	}
	return issues
}

func checkHTMLLang(root Node) []Issue {
	html, ok := first(root, "html")
	if !ok || attrOrEmpty(html, "lang") != "" {
		return nil
	}
	return []Issue{issue("html-lang", SeverityWarning, "Document missing lang attribute", "<html>")}
}

func checkEmptyLinks(root Node) []Issue {
	var issues []Issue
	for _, a := range root.Find("a") {
		if strings.TrimSpace(a.Text()) != "" ||
			attrOrEmpty(a, "aria-label") != "" ||
			attrOrEmpty(a, "aria-labelledby") != "" ||
			len(a.Find("img[alt]")) > 0 {
			continue
		}
		issues = append(issues, issue("link-name", SeverityError,
			"Empty link: no accessible text",
			fmt.Sprintf(`<a href="%s">`, attrOrEmpty(a, "href"))))
	}
	return issues
}

func checkClickables(root Node) []Issue {
	var issues []Issue
	for _, el := range root.Find("div[onclick], span[onclick]") {
		if attrOrEmpty(el, "role") == "button" {
			continue
		}
		if _, ok := el.Attr("tabindex"); ok {
			continue
		}
		issues = append(issues, issue("click-keyboard", SeverityWarning,
			"Clickable element not keyboard accessible",
			"<"+el.Tag()+` onclick="...">`))
	}
	return issues
}

func checkTitle(root Node) []Issue {
	title, ok := first(root, "title")
	if ok && strings.TrimSpace(title.Text()) != "" {
		return nil
	}
	return []Issue{issue("document-title", SeverityWarning, "Document missing or empty title", "<title>")}
}

func checkTableCaptions(root Node) []Issue {
	var issues []Issue
	for _, table := range root.Find("table") {
		if len(table.Find("caption")) > 0 ||
			attrOrEmpty(table, "aria-label") != "" ||
			attrOrEmpty(table, "aria-labelledby") != "" {
			continue
		}
		issues = append(issues, issue("table-caption", SeverityInfo, "Table missing caption or aria-label", "<table>"))
	}
	return issues
}

func checkAutoplay(root Node) []Issue {
	var issues []Issue
	for _, media := range root.Find("video[autoplay], audio[autoplay]") {
		issues = append(issues, issue("media-autoplay", SeverityWarning,
			"Auto-playing media detected",
			"<"+media.Tag()+" autoplay>"))
	}
	return issues
}

func checkMainLandmark(root Node) []Issue {
	if len(root.Find(`main, [role="main"]`)) > 0 {
		return nil
	}
	return []Issue{issue("landmark-main", SeverityInfo, "No main landmark found", "(document)")}
}

func checkNewWindowLinks(root Node) []Issue {
	var issues []Issue
	for _, a := range root.Find(`a[target="_blank" i]`) {
		if warnsOfNewWindow(a) {
			continue
		}
		issues = append(issues, issue("link-new-window", SeverityInfo,
			"Link opens in new window without warning",
			fmt.Sprintf(`<a target="_blank" href="%s">`, attrOrEmpty(a, "href"))))
	}
	return issues
}

// warnsOfNewWindow checks "new window" and "new tab" against both the visible
// text and the aria-label, but "opens in" against the visible text only.
func warnsOfNewWindow(a Node) bool {
	text := strings.ToLower(a.Text())
	label := strings.ToLower(attrOrEmpty(a, "aria-label"))
	for _, phrase := range []string{"new window", "new tab"} {
		if strings.Contains(text, phrase) || strings.Contains(label, phrase) {
			return true
		}
	}
	return strings.Contains(text, "opens in")
}
