package docspec

// United States specifications.
// The State Department family shares the 2x2 inch frame; the digital
// documents add file-size caps and, for the green card, an explicit
// crown-to-frame-top distance.

// USPassportSpec returns the US passport photo specification.
// Head height 1 to 1 3/8 inches, eye line 1 1/8 to 1 3/8 inches from the
// photo bottom.
func USPassportSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "US",
		DocumentName:              "Passport",
		PhotoWidthMM:              50.8,
		PhotoHeightMM:             50.8,
		DPI:                       300,
		HeadMinMM:                 mm(25.0),
		HeadMaxMM:                 mm(35.0),
		EyeMinFromBottomMM:        mm(28.0),
		EyeMaxFromBottomMM:        mm(35.0),
		BackgroundColor:           "white",
		GlassesAllowed:            "no",
		NeutralExpressionRequired: true,
		SourceURLs: []string{
			"https://travel.state.gov/content/travel/en/passports/how-apply/photos.html",
		},
	}
}

// USVisaSpec returns the US visa photo specification. Physically the
// passport frame, with the digital submission size cap.
func USVisaSpec() *PhotoSpec {
	spec := USPassportSpec()
	spec.DocumentName = "Visa"
	spec.FileSizeMaxKB = kb(240)
	spec.SourceURLs = []string{
		"https://travel.state.gov/content/travel/en/us-visas/visa-information-resources/photos.html",
	}
	return spec
}

// USDiversityVisaSpec returns the diversity visa (lottery) specification.
// Head bounds are fractions of photo height per the digital requirements.
func USDiversityVisaSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "US",
		DocumentName:              "Diversity Visa",
		PhotoWidthMM:              50.8,
		PhotoHeightMM:             50.8,
		DPI:                       300,
		HeadMinFraction:           frac(0.50),
		HeadMaxFraction:           frac(0.69),
		EyeMinFromBottomMM:        mm(28.4),
		EyeMaxFromBottomMM:        mm(35.1),
		BackgroundColor:           "white",
		GlassesAllowed:            "no",
		NeutralExpressionRequired: true,
		FileSizeMinKB:             kb(10),
		FileSizeMaxKB:             kb(240),
		SourceURLs: []string{
			"https://travel.state.gov/content/travel/en/us-visas/immigrate/diversity-visa/dv-photo.html",
		},
	}
}

// USGreenCardSpec returns the permanent resident card specification.
// Carries a crown-to-frame-top distance, so it exercises the head-top
// positioning rule.
func USGreenCardSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "US",
		DocumentName:              "Green Card",
		PhotoWidthMM:              50.8,
		PhotoHeightMM:             50.8,
		DPI:                       300,
		HeadMinFraction:           frac(0.50),
		HeadMaxFraction:           frac(0.69),
		EyeMinFromBottomMM:        mm(28.4),
		EyeMaxFromBottomMM:        mm(35.1),
		HeadTopDistMinMM:          mm(5.0),
		HeadTopDistMaxMM:          mm(12.0),
		BackgroundColor:           "white",
		GlassesAllowed:            "no",
		NeutralExpressionRequired: true,
		FileSizeMaxKB:             kb(240),
		SourceURLs: []string{
			"https://www.uscis.gov/green-card/after-we-grant-your-green-card/replace-green-card",
		},
	}
}
