package docspec

// IndiaPassportSpec returns the Indian passport photo specification.
// 2x2 inch frame with head bounds as fractions of photo height and no eye
// line requirement; positioning falls to the head-top distance rule.
func IndiaPassportSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "IN",
		DocumentName:              "Passport",
		PhotoWidthMM:              51.0,
		PhotoHeightMM:             51.0,
		DPI:                       300,
		HeadMinFraction:           frac(0.65),
		HeadMaxFraction:           frac(0.75),
		HeadTopDistMinMM:          mm(3.0),
		HeadTopDistMaxMM:          mm(5.0),
		BackgroundColor:           "white",
		GlassesAllowed:            "no",
		NeutralExpressionRequired: true,
		OtherRequirements:         "Face should be centered. Neutral expression, mouth closed. Both ears visible.",
	}
}

// CanadaPassportSpec returns the Canadian passport photo specification.
// 50x70mm frame. The published eye line is measured from the top edge;
// Frame derives the from-bottom form the positioning chain uses.
func CanadaPassportSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "CA",
		DocumentName:              "Passport",
		PhotoWidthMM:              50.0,
		PhotoHeightMM:             70.0,
		DPI:                       300,
		HeadMinMM:                 mm(31.0),
		HeadMaxMM:                 mm(36.0),
		EyeMinFromTopMM:           mm(17.0),
		EyeMaxFromTopMM:           mm(23.0),
		BackgroundColor:           "white",
		GlassesAllowed:            "no",
		NeutralExpressionRequired: true,
		OtherRequirements:         "Photos must be taken by a commercial photographer; date stamp required on back for physical photos.",
		SourceURLs: []string{
			"https://www.canada.ca/en/immigration-refugees-citizenship/services/canadian-passports/photos.html",
		},
	}
}
