package docspec

// European specifications. Both use the ICAO 35x45mm frame.

// SchengenVisaSpec returns the generic Schengen visa specification.
// Zero head-margin override: exact eye placement outranks clearance for
// this document family.
func SchengenVisaSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "DE_schengen",
		DocumentName:              "Visa",
		PhotoWidthMM:              35.0,
		PhotoHeightMM:             45.0,
		DPI:                       300,
		HeadMinMM:                 mm(32.0),
		HeadMaxMM:                 mm(36.0),
		EyeMinFromBottomMM:        mm(29.0),
		EyeMaxFromBottomMM:        mm(34.0),
		HeadTopDistMinMM:          mm(2.0),
		HeadTopDistMaxMM:          mm(6.0),
		BackgroundColor:           "light_grey",
		GlassesAllowed:            "yes",
		NeutralExpressionRequired: true,
		OtherRequirements:         "Mouth closed. No shadows on face or background. Good contrast and sharpness.",
		MinVisualHeadMarginPx:     px(0),
		SourceURLs: []string{
			"General ICAO recommendations / specific Schengen country guidelines",
		},
	}
}

// UKPassportSpec returns the UK passport photo specification.
// Chin-to-crown 29 to 34mm with clear space above the head.
func UKPassportSpec() *PhotoSpec {
	return &PhotoSpec{
		CountryCode:               "GB",
		DocumentName:              "Passport",
		PhotoWidthMM:              35.0,
		PhotoHeightMM:             45.0,
		DPI:                       300,
		HeadMinMM:                 mm(29.0),
		HeadMaxMM:                 mm(34.0),
		EyeMinFromBottomMM:        mm(25.0),
		EyeMaxFromBottomMM:        mm(31.0),
		BackgroundColor:           "light_grey",
		GlassesAllowed:            "yes",
		NeutralExpressionRequired: true,
		OtherRequirements:         "Plain light-coloured background (cream or light grey). No patterns or shadows.",
		SourceURLs: []string{
			"https://www.gov.uk/photos-for-passports",
		},
	}
}
