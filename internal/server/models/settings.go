package models

import "time"

// Settings document types.
const (
	SettingsHome  = "home"
	SettingsAbout = "about"
)

// HomeSettings is the editable content of the landing page.
type HomeSettings struct {
	HeroImage          string    `json:"heroImage"`
	HeroTitle          string    `json:"heroTitle"`
	HeroSubtitle       string    `json:"heroSubtitle"`
	FeaturedProductIDs []string  `json:"featuredProductIds"`
	CollageImages      []string  `json:"collageImages"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// HomeSettingsPatch is a partial update of HomeSettings.
type HomeSettingsPatch struct {
	HeroImage          *string   `json:"heroImage"`
	HeroTitle          *string   `json:"heroTitle"`
	HeroSubtitle       *string   `json:"heroSubtitle"`
	FeaturedProductIDs *[]string `json:"featuredProductIds"`
	CollageImages      *[]string `json:"collageImages"`
}

// Apply copies every non-nil field of the patch onto s.
func (p *HomeSettingsPatch) Apply(s *HomeSettings) {
	if p.HeroImage != nil {
		s.HeroImage = *p.HeroImage
	}
	if p.HeroTitle != nil {
		s.HeroTitle = *p.HeroTitle
	}
	if p.HeroSubtitle != nil {
		s.HeroSubtitle = *p.HeroSubtitle
	}
	if p.FeaturedProductIDs != nil {
		s.FeaturedProductIDs = append([]string{}, *p.FeaturedProductIDs...)
	}
	if p.CollageImages != nil {
		s.CollageImages = append([]string{}, *p.CollageImages...)
	}
}

// AboutSettings is the editable content of the about page.
type AboutSettings struct {
	FounderImage  string    `json:"founderImage"`
	FounderQuote  string    `json:"founderQuote"`
	CollageImages []string  `json:"collageImages"`
	FlagshipImage string    `json:"flagshipImage"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AboutSettingsPatch is a partial update of AboutSettings.
type AboutSettingsPatch struct {
	FounderImage  *string   `json:"founderImage"`
	FounderQuote  *string   `json:"founderQuote"`
	CollageImages *[]string `json:"collageImages"`
	FlagshipImage *string   `json:"flagshipImage"`
}

// Apply copies every non-nil field of the patch onto s.
func (p *AboutSettingsPatch) Apply(s *AboutSettings) {
	if p.FounderImage != nil {
		s.FounderImage = *p.FounderImage
	}
	if p.FounderQuote != nil {
		s.FounderQuote = *p.FounderQuote
	}
	if p.CollageImages != nil {
		s.CollageImages = append([]string{}, *p.CollageImages...)
	}
	if p.FlagshipImage != nil {
		s.FlagshipImage = *p.FlagshipImage
	}
}

// DefaultHomeSettings is the content materialized when no home document exists.
func DefaultHomeSettings() HomeSettings {
	return HomeSettings{
		HeroImage:          "https://picsum.photos/id/326/800/600",
		HeroTitle:          "Simple, Yet Delectable",
		HeroSubtitle:       "Discover and indulge in our irresistible aroma of freshly baked croissants. Golden, flaky, and crafted to perfection every morning.",
		FeaturedProductIDs: []string{},
		CollageImages: []string{
			"https://picsum.photos/id/431/600/800",
			"https://picsum.photos/id/488/400/400",
			"https://picsum.photos/id/292/600/800",
			"https://picsum.photos/id/312/400/400",
			"https://picsum.photos/id/225/600/1200",
			"https://picsum.photos/id/1062/400/400",
			"https://picsum.photos/id/835/600/800",
			"https://picsum.photos/id/493/400/400",
			"https://picsum.photos/id/766/600/800",
		},
	}
}

// DefaultAboutSettings is the content materialized when no about document exists.
func DefaultAboutSettings() AboutSettings {
	return AboutSettings{
		FounderImage: "https://picsum.photos/id/338/800/1000",
		FounderQuote: "Baking is about patience. In a world that moves so fast, bread forces you to slow down. You can't rush the rise.",
		CollageImages: []string{
			"https://picsum.photos/id/425/800/800",
			"https://picsum.photos/id/292/400/400",
			"https://picsum.photos/id/306/400/800",
			"https://picsum.photos/id/225/400/400",
		},
		FlagshipImage: "https://picsum.photos/id/122/800/600",
	}
}
