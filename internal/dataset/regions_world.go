package dataset

import "github.com/rgehrsitz/taxatlas/internal/domain"

func taxHavens() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{Name: "Monaco", Code: "MC", Currency: "EUR", Brackets: flat(0), SocialSecurity: social(0.1355, 0)},
		{Name: "United Arab Emirates", Code: "AE", Currency: "AED", Brackets: flat(0)},
		{Name: "Bahamas", Code: "BS", Currency: "BSD", Brackets: flat(0), SocialSecurity: social(0.039, 13520)},
		{Name: "Cayman Islands", Code: "KY", Currency: "KYD", Brackets: flat(0), SocialSecurity: social(0.05, 102000)},
		{Name: "Bermuda", Code: "BM", Currency: "BMD", Brackets: flat(0), SocialSecurity: social(0.0475, 1000000)},
		{Name: "Bahrain", Code: "BH", Currency: "BHD", Brackets: flat(0), SocialSecurity: social(0.08, 48000)},
	}
}

func americas() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "United States", Code: "US", Currency: "USD",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 11000, 0.10),
				domain.NewBracket(11000, 44725, 0.12),
				domain.NewBracket(44725, 95375, 0.22),
				domain.NewBracket(95375, 182100, 0.24),
				domain.NewBracket(182100, 231250, 0.32),
				domain.NewBracket(231250, 578125, 0.35),
				domain.NewBracket(578125, -1, 0.37),
			},
			StandardDeduction: ded(13850),
			SocialSecurity:    social(0.062, 160200),
		},
		{
			Name: "Canada", Code: "CA", Currency: "CAD",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 55867, 0.15),
				domain.NewBracket(55867, 111733, 0.205),
				domain.NewBracket(111733, 173205, 0.26),
				domain.NewBracket(173205, 246752, 0.29),
				domain.NewBracket(246752, -1, 0.33),
			},
			StandardDeduction: ded(15705),
			SocialSecurity:    social(0.0595, 68500),
		},
		{
			Name: "Mexico", Code: "MX", Currency: "MXN",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 8952, 0.0192),
				domain.NewBracket(8952, 75984, 0.064),
				domain.NewBracket(75984, 133536, 0.1088),
				domain.NewBracket(133536, 155229, 0.16),
				domain.NewBracket(155229, 185852, 0.1792),
				domain.NewBracket(185852, 374837, 0.2136),
				domain.NewBracket(374837, 590795, 0.2352),
				domain.NewBracket(590795, 1127926, 0.30),
				domain.NewBracket(1127926, 1503902, 0.32),
				domain.NewBracket(1503902, 4511707, 0.34),
				domain.NewBracket(4511707, -1, 0.35),
			},
			SocialSecurity: social(0.02775, 0),
		},
	}
}
