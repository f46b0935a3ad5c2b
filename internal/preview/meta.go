package preview

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// PageMeta is what the generic strategy reads out of a page head.
type PageMeta struct {
	Title string
	Image string
	Icon  string
}

// Thumbnail prefers a declared preview image over the site icon.
func (m *PageMeta) Thumbnail() string {
	if m.Image != "" {
		return m.Image
	}
	return m.Icon
}

// image tags in order of preference
var imageKeys = []string{
	"og:image",
	"og:image:secure_url",
	"og:image:url",
	"twitter:image",
	"twitter:image:src",
	"image",
}

var titleKeys = []string{
	"og:title",
	"twitter:title",
}

// ParseMeta tokenizes r until the end of the head and collects Open-Graph,
// Twitter-card and generic image tags plus the site icon. The document
// title is used only when no card title is declared. Relative URLs
// are resolved against base.
func ParseMeta(r io.Reader, base *url.URL) (*PageMeta, error) {
	z := html.NewTokenizer(r)

	found := make(map[string]string)
	var icon, shortcut, touch, docTitle string

loop:
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			break loop
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "head" {
				break loop
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "body" {
				break loop
			}
			if tag == "title" && docTitle == "" {
				if z.Next() == html.TextToken {
					docTitle = strings.Join(strings.Fields(string(z.Text())), " ")
				}
				continue
			}
			if !hasAttr || (tag != "meta" && tag != "link") {
				continue
			}
			attrs := readAttrs(z)

			if tag == "meta" {
				key := attrs["property"]
				if key == "" {
					key = attrs["name"]
				}
				if key == "" {
					key = attrs["itemprop"]
				}
				key = strings.ToLower(strings.TrimSpace(key))
				content := strings.TrimSpace(attrs["content"])
				if key != "" && content != "" {
					if _, dup := found[key]; !dup {
						found[key] = content
					}
				}
				continue
			}

			href := strings.TrimSpace(attrs["href"])
			if href == "" {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(attrs["rel"])) {
			case "icon":
				if icon == "" {
					icon = href
				}
			case "shortcut icon":
				if shortcut == "" {
					shortcut = href
				}
			case "apple-touch-icon", "apple-touch-icon-precomposed":
				if touch == "" {
					touch = href
				}
			}
		}
	}

	m := &PageMeta{}
	for _, k := range titleKeys {
		if v := found[k]; v != "" {
			m.Title = v
			break
		}
	}
	if m.Title == "" {
		m.Title = docTitle
	}
	for _, k := range imageKeys {
		if v := absoluteURL(base, found[k]); v != "" {
			m.Image = v
			break
		}
	}
	for _, v := range []string{icon, shortcut, touch} {
		if abs := absoluteURL(base, v); abs != "" {
			m.Icon = abs
			break
		}
	}
	return m, nil
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		k, v, more := z.TagAttr()
		attrs[strings.ToLower(string(k))] = string(v)
		if !more {
			return attrs
		}
	}
}

// absoluteURL resolves ref against base and keeps only http(s) results.
func absoluteURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
