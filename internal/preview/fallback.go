package preview

import "strings"

// domainRule is a fixed preview for a well-known site.
type domainRule struct {
	domain    string
	thumbnail string
	title     string
}

var fallbackRules = []domainRule{
	{domain: "naver.com", thumbnail: "https://ssl.pstatic.net/sstatic/search/common/og_v3.png", title: "네이버"},
	{domain: "kakao.com", thumbnail: "https://www.kakaocorp.com/favicon.ico", title: "카카오"},
	{domain: "google.com", thumbnail: "https://www.google.com/favicon.ico", title: "구글"},
	{domain: "coupang.com", thumbnail: "https://image10.coupangcdn.com/image/op/displayitem/displayitem_coupang.png"},
	{domain: "github.com", thumbnail: "https://github.githubassets.com/favicons/favicon-dark.png"},
	{domain: "youtube.com", title: "유튜브"},
	{domain: "instagram.com", title: "인스타그램"},
}

// FallbackFor returns the fixed thumbnail and title for host. Empty strings
// mean the table has nothing for that field.
func FallbackFor(host string) (thumbnail, title string) {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, r := range fallbackRules {
		if host == r.domain || strings.HasSuffix(host, "."+r.domain) {
			return r.thumbnail, r.title
		}
	}
	return "", ""
}
