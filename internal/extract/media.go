package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ticoet/geoscan/internal/model"
)

// analyzeMedia fills the media fact group from the collected nodes.
func (e *Extractor) analyzeMedia(doc *document, result *Result) {
	media := &result.Media
	media.Images = len(doc.images)

	for _, img := range doc.images {
		descriptor := imageDescriptor(img)
		if len(media.ImagesDetails) < model.MaxImagesDetails {
			media.ImagesDetails = append(media.ImagesDetails, descriptor)
		}
		// An empty alt attribute is treated the same as no attribute:
		// it does not describe the image.
		if strings.TrimSpace(getAttr(img, "alt")) != "" {
			media.ImagesWithAlt++
			continue
		}
		if len(media.ImagesWithoutAltDetails) < model.MaxImagesWithoutAltDetails {
			media.ImagesWithoutAltDetails = append(media.ImagesWithoutAltDetails, descriptor)
		}
	}
	media.ImagesWithoutAlt = media.Images - media.ImagesWithAlt

	media.Videos = doc.videos
	media.Audios = doc.audios
	media.GEOOptimized = model.OptimizedMediaStats{
		Images: doc.geoImages,
		Videos: doc.geoVideos,
		Audios: doc.geoAudios,
	}
}

// imageDescriptor returns a short identifier for one image: its
// source URL when present, a placeholder otherwise.
func imageDescriptor(img *html.Node) string {
	if src := getAttr(img, "src"); src != "" {
		return src
	}
	if src := getAttr(img, "data-src"); src != "" {
		return src
	}
	return "(inline image)"
}
