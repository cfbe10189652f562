// Package markup is a minimal element builder used to assemble the output
// document: create elements, set attributes, append children and text, and
// serialise the result as XML text.
package markup

import (
	"io"

	"github.com/beevik/etree"
)

// Element is a node of the tree. Attributes keep their insertion order and
// an element has either children or text.
type Element struct {
	el *etree.Element
}

// New creates an element with the given attribute name/value pairs.
func New(name string, attrs ...string) *Element {
	e := &Element{el: etree.NewElement(name)}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Set(attrs[i], attrs[i+1])
	}
	return e
}

// Set adds or replaces an attribute.
func (e *Element) Set(name, value string) *Element {
	e.el.CreateAttr(name, value)
	return e
}

// Append adds children in order.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		e.el.AddChild(c.el)
	}
	return e
}

// SetText replaces the element's text content.
func (e *Element) SetText(text string) *Element {
	e.el.SetText(text)
	return e
}

// Encode writes the element tree to w. Elements without children or text
// are self-closed. Text is escaped only as far as XML requires, so style
// sheets keep their quotes.
func (e *Element) Encode(w io.Writer) error {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.SetRoot(e.el.Copy())
	_, err := doc.WriteTo(w)
	return err
}
