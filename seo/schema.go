package seo

import (
	"encoding/json"
	"fmt"
)

// Node is one schema.org node of a page graph. Each kind marshals itself with
// its "@type" injected by marshalTyped.
type Node interface {
	json.Marshaler
	Kind() string
}

// Ref points at a node defined elsewhere in the graph.
type Ref struct {
	ID string `json:"@id"`
}

func ref(id string) *Ref { return &Ref{ID: id} }

// WebSite describes the site as a whole.
type WebSite struct {
	ID          string `json:"@id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Publisher   *Ref   `json:"publisher,omitempty"`
	InLanguage  string `json:"inLanguage,omitempty"`
}

// Person is the site author. It is typed both Person and Organization so it can
// act as publisher.
type Person struct {
	ID          string       `json:"@id"`
	Name        string       `json:"name"`
	Image       *ImageObject `json:"image,omitempty"`
	Logo        *Ref         `json:"logo,omitempty"`
	Description string       `json:"description,omitempty"`
}

// ImageObject is an image with its pixel dimensions.
type ImageObject struct {
	ID         string `json:"@id,omitempty"`
	InLanguage string `json:"inLanguage,omitempty"`
	URL        string `json:"url"`
	ContentURL string `json:"contentUrl,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Caption    string `json:"caption,omitempty"`
}

// Author names the person behind an article.
type Author struct {
	ID   string `json:"@id"`
	Name string `json:"name"`
}

// Article is the node of a blog post.
type Article struct {
	ID               string   `json:"@id"`
	IsPartOf         *Ref     `json:"isPartOf,omitempty"`
	Author           *Author  `json:"author,omitempty"`
	Headline         string   `json:"headline"`
	DatePublished    string   `json:"datePublished,omitempty"`
	DateModified     string   `json:"dateModified,omitempty"`
	MainEntityOfPage *Ref     `json:"mainEntityOfPage,omitempty"`
	WordCount        int      `json:"wordCount"`
	CommentCount     int      `json:"commentCount"`
	Publisher        *Ref     `json:"publisher,omitempty"`
	Image            *Ref     `json:"image,omitempty"`
	ThumbnailURL     string   `json:"thumbnailUrl,omitempty"`
	ArticleSection   []string `json:"articleSection,omitempty"`
	InLanguage       string   `json:"inLanguage,omitempty"`
}

// WebPage is the page that carries the graph.
type WebPage struct {
	ID                 string `json:"@id"`
	URL                string `json:"url"`
	Name               string `json:"name"`
	IsPartOf           *Ref   `json:"isPartOf,omitempty"`
	PrimaryImageOfPage *Ref   `json:"primaryImageOfPage,omitempty"`
	Image              *Ref   `json:"image,omitempty"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	DatePublished      string `json:"datePublished,omitempty"`
	DateModified       string `json:"dateModified,omitempty"`
	Breadcrumb         *Ref   `json:"breadcrumb,omitempty"`
	InLanguage         string `json:"inLanguage,omitempty"`
	PotentialAction    []Node `json:"potentialAction,omitempty"`
}

// CollectionPage is an index or tag archive page.
type CollectionPage struct {
	ID                 string `json:"@id"`
	URL                string `json:"url"`
	Name               string `json:"name"`
	IsPartOf           *Ref   `json:"isPartOf,omitempty"`
	About              *Ref   `json:"about,omitempty"`
	PrimaryImageOfPage *Ref   `json:"primaryImageOfPage,omitempty"`
	Image              *Ref   `json:"image,omitempty"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	Breadcrumb         *Ref   `json:"breadcrumb,omitempty"`
	InLanguage         string `json:"inLanguage,omitempty"`
}

// BreadcrumbList is the trail from the home page to the current page.
type BreadcrumbList struct {
	ID              string     `json:"@id"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ListItem is one step of a BreadcrumbList.
type ListItem struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// ReadAction is the potentialAction of reading a WebPage.
type ReadAction struct {
	Target []string `json:"target"`
}

func (WebSite) Kind() string        { return "WebSite" }
func (Person) Kind() string         { return "Person" }
func (ImageObject) Kind() string    { return "ImageObject" }
func (Article) Kind() string        { return "Article" }
func (WebPage) Kind() string        { return "WebPage" }
func (CollectionPage) Kind() string { return "CollectionPage" }
func (BreadcrumbList) Kind() string { return "BreadcrumbList" }
func (ListItem) Kind() string       { return "ListItem" }
func (ReadAction) Kind() string     { return "ReadAction" }

// The local plain types drop the MarshalJSON method so json.Marshal does not
// recurse.

func (n WebSite) MarshalJSON() ([]byte, error) {
	type plain WebSite
	return marshalTyped(n.Kind(), plain(n))
}

func (n Person) MarshalJSON() ([]byte, error) {
	type plain Person
	return marshalTyped([]string{"Person", "Organization"}, plain(n))
}

func (n ImageObject) MarshalJSON() ([]byte, error) {
	type plain ImageObject
	return marshalTyped(n.Kind(), plain(n))
}

func (n Article) MarshalJSON() ([]byte, error) {
	type plain Article
	return marshalTyped(n.Kind(), plain(n))
}

func (n WebPage) MarshalJSON() ([]byte, error) {
	type plain WebPage
	return marshalTyped(n.Kind(), plain(n))
}

func (n CollectionPage) MarshalJSON() ([]byte, error) {
	type plain CollectionPage
	return marshalTyped(n.Kind(), plain(n))
}

func (n BreadcrumbList) MarshalJSON() ([]byte, error) {
	type plain BreadcrumbList
	return marshalTyped(n.Kind(), plain(n))
}

func (n ListItem) MarshalJSON() ([]byte, error) {
	type plain ListItem
	return marshalTyped(n.Kind(), plain(n))
}

func (n ReadAction) MarshalJSON() ([]byte, error) {
	type plain ReadAction
	return marshalTyped(n.Kind(), plain(n))
}

// marshalTyped encodes v as a JSON object whose first member is "@type".
func marshalTyped[T any](kind any, v T) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("schema node %T is not an object", v)
	}
	typ, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(typ)+10)
	out = append(out, `{"@type":`...)
	out = append(out, typ...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}

// Graph is the structured data of one page.
type Graph []Node

// MarshalJSON wraps the nodes in a schema.org @graph document.
func (g Graph) MarshalJSON() ([]byte, error) {
	nodes := []Node(g)
	if nodes == nil {
		nodes = []Node{}
	}
	return json.Marshal(struct {
		Context string `json:"@context"`
		Graph   []Node `json:"@graph"`
	}{"https://schema.org", nodes})
}

// String returns the graph as JSON, or "{}" when a node cannot be encoded.
func (g Graph) String() string {
	b, err := json.Marshal(g)
	if err != nil {
		return "{}"
	}
	return string(b)
}
