package htmlutil

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseDocument parses raw markup into a goquery document. Parsing is
// lenient, malformed markup still yields a (possibly empty) document.
func ParseDocument(markup []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
}

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// GetMeta returns the content attribute of the <meta> element whose
// name attribute equals `name`, or "" if there is no such element.
func GetMeta(doc *goquery.Document, name string) string {
	return doc.Find("meta[name='" + name + "']").AttrOr("content", "")
}

// GetInputValue returns the value attribute of the <input> element
// whose name attribute equals `name`, or "" if there is no such
// element.
func GetInputValue(doc *goquery.Document, name string) string {
	return doc.Find("input[name='" + name + "']").AttrOr("value", "")
}

// GetTitle returns the text of the first <title> element, or "".
func GetTitle(doc *goquery.Document) string {
	return doc.Find("title").First().Text()
}
