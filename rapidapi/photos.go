package rapidapi

import (
	"regexp"
	"strings"
)

var (
	photoSizePattern = regexp.MustCompile(`-w\d+_h\d+`)
	photoSuffixSmall = regexp.MustCompile(`s\.(jpg|jpeg|png|webp)$`)
)

// upgradePhotoURL asks the realtor CDN for the large rendition instead of the
// thumbnail the search endpoint hands out.
func upgradePhotoURL(href string) string {
	if href == "" {
		return href
	}
	if photoSizePattern.MatchString(href) {
		return photoSizePattern.ReplaceAllString(href, "-w1024_h768")
	}
	if strings.Contains(href, "rdcpix.com") {
		return photoSuffixSmall.ReplaceAllString(href, "od-w1024_h768.$1")
	}
	return href
}
