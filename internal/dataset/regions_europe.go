package dataset

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Region names used to group the built-in tables.
const (
	RegionWestern    = "western-europe"
	RegionNorthern   = "northern-europe"
	RegionSouthern   = "southern-europe"
	RegionEastern    = "eastern-europe"
	RegionBaltic     = "baltic"
	RegionOther      = "other-europe"
	RegionAdditional = "additional-europe"
	RegionHavens     = "tax-havens"
	RegionAmericas   = "americas"
)

// Amounts are annual, in the profile's own currency. Brackets share their
// boundary with the previous bracket unless noted otherwise.

func ded(n int64) *decimal.Decimal { return domain.DecimalPtr(decimal.NewFromInt(n)) }

func social(rate float64, cap int64) *domain.SocialSecurityRule {
	rule := &domain.SocialSecurityRule{Rate: decimal.NewFromFloat(rate)}
	if cap > 0 {
		rule.Cap = ded(cap)
	}
	return rule
}

func flat(rate float64) []domain.TaxBracket {
	return []domain.TaxBracket{domain.NewBracket(0, -1, rate)}
}

func westernEurope() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Germany", Code: "DE", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 11604, 0),
				domain.NewBracket(11604, 66760, 0.14),
				domain.NewBracket(66760, 277825, 0.42),
				domain.NewBracket(277825, -1, 0.45),
			},
			SocialSecurity: social(0.093, 90600),
		},
		{
			Name: "France", Code: "FR", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 11294, 0),
				domain.NewBracket(11294, 28797, 0.11),
				domain.NewBracket(28797, 82341, 0.30),
				domain.NewBracket(82341, 177106, 0.41),
				domain.NewBracket(177106, -1, 0.45),
			},
			SocialSecurity: social(0.069, 46368),
		},
		{
			Name: "Netherlands", Code: "NL", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 38098, 0.3697),
				domain.NewBracket(38098, 75518, 0.3697),
				domain.NewBracket(75518, -1, 0.495),
			},
		},
		{
			Name: "Belgium", Code: "BE", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 15820, 0.25),
				domain.NewBracket(15820, 27920, 0.40),
				domain.NewBracket(27920, 48320, 0.45),
				domain.NewBracket(48320, -1, 0.50),
			},
			StandardDeduction: ded(10570),
			SocialSecurity:    social(0.1307, 0),
		},
		{
			Name: "Austria", Code: "AT", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 12816, 0),
				domain.NewBracket(12816, 20818, 0.20),
				domain.NewBracket(20818, 34513, 0.30),
				domain.NewBracket(34513, 66612, 0.40),
				domain.NewBracket(66612, 99266, 0.48),
				domain.NewBracket(99266, 1000000, 0.50),
				domain.NewBracket(1000000, -1, 0.55),
			},
			SocialSecurity: social(0.1807, 72720),
		},
		{
			Name: "Switzerland", Code: "CH", Currency: "CHF",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 18500, 0),
				domain.NewBracket(18500, 33200, 0.0077),
				domain.NewBracket(33200, 43500, 0.0088),
				domain.NewBracket(43500, 58000, 0.0264),
				domain.NewBracket(58000, 76100, 0.0297),
				domain.NewBracket(76100, 82000, 0.0594),
				domain.NewBracket(82000, 108800, 0.066),
				domain.NewBracket(108800, 141500, 0.088),
				domain.NewBracket(141500, 184900, 0.11),
				domain.NewBracket(184900, 793400, 0.11),
				domain.NewBracket(793400, -1, 0.115),
			},
			SocialSecurity: social(0.053, 0),
		},
		{
			Name: "Luxembourg", Code: "LU", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 12438, 0),
				domain.NewBracket(12438, 20796, 0.08),
				domain.NewBracket(20796, 45897, 0.20),
				domain.NewBracket(45897, 150000, 0.39),
				domain.NewBracket(150000, 250000, 0.41),
				domain.NewBracket(250000, -1, 0.42),
			},
			SocialSecurity: social(0.1245, 140280),
		},
		{
			Name: "Ireland", Code: "IE", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 42000, 0.20),
				domain.NewBracket(42000, -1, 0.40),
			},
			SocialSecurity: social(0.04, 0),
		},
		{
			Name: "United Kingdom", Code: "GB", Currency: "GBP",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 12570, 0),
				domain.NewBracket(12570, 50270, 0.20),
				domain.NewBracket(50270, 125140, 0.40),
				domain.NewBracket(125140, -1, 0.45),
			},
			SocialSecurity: social(0.08, 50270),
		},
	}
}

func northernEurope() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Sweden", Code: "SE", Currency: "SEK",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 615300, 0.32),
				domain.NewBracket(615300, -1, 0.52),
			},
			StandardDeduction: ded(24000),
			SocialSecurity:    social(0.07, 599250),
		},
		{
			Name: "Norway", Code: "NO", Currency: "NOK",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 208050, 0.22),
				domain.NewBracket(208050, 292850, 0.237),
				domain.NewBracket(292850, 670000, 0.262),
				domain.NewBracket(670000, 937900, 0.352),
				domain.NewBracket(937900, 1350000, 0.385),
				domain.NewBracket(1350000, -1, 0.395),
			},
			SocialSecurity: social(0.078, 0),
		},
		{
			Name: "Denmark", Code: "DK", Currency: "DKK",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 49700, 0),
				domain.NewBracket(49700, 588900, 0.37),
				domain.NewBracket(588900, -1, 0.52),
			},
			SocialSecurity: social(0.08, 0),
		},
		{
			Name: "Finland", Code: "FI", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 20500, 0.1264),
				domain.NewBracket(20500, 30500, 0.19),
				domain.NewBracket(30500, 50400, 0.3025),
				domain.NewBracket(50400, 88200, 0.34),
				domain.NewBracket(88200, 150000, 0.4175),
				domain.NewBracket(150000, -1, 0.4425),
			},
			SocialSecurity: social(0.0865, 0),
		},
		{
			Name: "Iceland", Code: "IS", Currency: "ISK",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 5233516, 0.3145),
				domain.NewBracket(5233516, 14693761, 0.3795),
				domain.NewBracket(14693761, -1, 0.4625),
			},
			SocialSecurity: social(0.04, 0),
		},
	}
}

func southernEurope() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Spain", Code: "ES", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 12450, 0.19),
				domain.NewBracket(12450, 20200, 0.24),
				domain.NewBracket(20200, 35200, 0.30),
				domain.NewBracket(35200, 60000, 0.37),
				domain.NewBracket(60000, 300000, 0.45),
				domain.NewBracket(300000, -1, 0.47),
			},
			StandardDeduction: ded(5550),
			SocialSecurity:    social(0.0635, 56646),
		},
		{
			Name: "Italy", Code: "IT", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 28000, 0.23),
				domain.NewBracket(28000, 50000, 0.35),
				domain.NewBracket(50000, -1, 0.43),
			},
			SocialSecurity: social(0.0919, 119650),
		},
		{
			Name: "Portugal", Code: "PT", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 7703, 0.1325),
				domain.NewBracket(7703, 11623, 0.18),
				domain.NewBracket(11623, 16472, 0.23),
				domain.NewBracket(16472, 21321, 0.26),
				domain.NewBracket(21321, 27146, 0.3275),
				domain.NewBracket(27146, 39791, 0.37),
				domain.NewBracket(39791, 51997, 0.435),
				domain.NewBracket(51997, 81199, 0.45),
				domain.NewBracket(81199, -1, 0.48),
			},
			StandardDeduction: ded(4104),
			SocialSecurity:    social(0.11, 0),
		},
		{
			Name: "Greece", Code: "GR", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 10000, 0.09),
				domain.NewBracket(10000, 20000, 0.22),
				domain.NewBracket(20000, 30000, 0.28),
				domain.NewBracket(30000, 40000, 0.36),
				domain.NewBracket(40000, -1, 0.44),
			},
			SocialSecurity: social(0.1387, 92660),
		},
		{
			Name: "Malta", Code: "MT", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 9100, 0),
				domain.NewBracket(9100, 14500, 0.15),
				domain.NewBracket(14500, 19500, 0.25),
				domain.NewBracket(19500, 60000, 0.25),
				domain.NewBracket(60000, -1, 0.35),
			},
			SocialSecurity: social(0.10, 28132),
		},
		{
			Name: "Cyprus", Code: "CY", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 19500, 0),
				domain.NewBracket(19500, 28000, 0.20),
				domain.NewBracket(28000, 36300, 0.25),
				domain.NewBracket(36300, 60000, 0.30),
				domain.NewBracket(60000, -1, 0.35),
			},
			SocialSecurity: social(0.088, 66612),
		},
	}
}

func easternEurope() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Poland", Code: "PL", Currency: "PLN",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 30000, 0),
				domain.NewBracket(30000, 120000, 0.12),
				domain.NewBracket(120000, -1, 0.32),
			},
			SocialSecurity: social(0.0976, 234720),
		},
		{
			Name: "Czech Republic", Code: "CZ", Currency: "CZK",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 1582812, 0.15),
				domain.NewBracket(1582812, -1, 0.23),
			},
			SocialSecurity: social(0.071, 2110416),
		},
		{
			Name: "Slovakia", Code: "SK", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 47537, 0.19),
				domain.NewBracket(47537, -1, 0.25),
			},
			StandardDeduction: ded(5646),
			SocialSecurity:    social(0.094, 99876),
		},
		{
			Name: "Hungary", Code: "HU", Currency: "HUF",
			Brackets:       flat(0.15),
			SocialSecurity: social(0.185, 0),
		},
		{
			Name: "Romania", Code: "RO", Currency: "RON",
			Brackets:       flat(0.10),
			SocialSecurity: social(0.35, 0),
		},
		{
			Name: "Bulgaria", Code: "BG", Currency: "BGN",
			Brackets:       flat(0.10),
			SocialSecurity: social(0.1378, 45600),
		},
		{
			Name: "Slovenia", Code: "SI", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 9210, 0.16),
				domain.NewBracket(9210, 27089, 0.26),
				domain.NewBracket(27089, 54178, 0.33),
				domain.NewBracket(54178, 78016, 0.39),
				domain.NewBracket(78016, -1, 0.50),
			},
			StandardDeduction: ded(5000),
			SocialSecurity:    social(0.221, 0),
		},
		{
			Name: "Croatia", Code: "HR", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 50400, 0.20),
				domain.NewBracket(50400, -1, 0.30),
			},
			StandardDeduction: ded(6720),
			SocialSecurity:    social(0.20, 0),
		},
	}
}

func balticStates() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Estonia", Code: "EE", Currency: "EUR",
			Brackets:          flat(0.20),
			StandardDeduction: ded(7848),
			SocialSecurity:    social(0.036, 0),
		},
		{
			Name: "Latvia", Code: "LV", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 20004, 0.20),
				domain.NewBracket(20004, 78100, 0.23),
				domain.NewBracket(78100, -1, 0.31),
			},
			SocialSecurity: social(0.105, 78100),
		},
		{
			Name: "Lithuania", Code: "LT", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 101094, 0.20),
				domain.NewBracket(101094, -1, 0.32),
			},
			SocialSecurity: social(0.195, 0),
		},
	}
}

func otherEurope() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Ukraine", Code: "UA", Currency: "UAH",
			Brackets: flat(0.195),
		},
		{
			Name: "Serbia", Code: "RS", Currency: "RSD",
			Brackets:       flat(0.10),
			SocialSecurity: social(0.199, 6290460),
		},
		{
			Name: "Bosnia and Herzegovina", Code: "BA", Currency: "BAM",
			Brackets:       flat(0.10),
			SocialSecurity: social(0.31, 0),
		},
		{
			Name: "North Macedonia", Code: "MK", Currency: "MKD",
			Brackets:       flat(0.10),
			SocialSecurity: social(0.28, 0),
		},
		{
			Name: "Albania", Code: "AL", Currency: "ALL",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 600000, 0),
				domain.NewBracket(600000, 2040000, 0.13),
				domain.NewBracket(2040000, -1, 0.23),
			},
			SocialSecurity: social(0.112, 1588800),
		},
		{
			Name: "Moldova", Code: "MD", Currency: "MDL",
			Brackets:          flat(0.12),
			StandardDeduction: ded(29700),
			SocialSecurity:    social(0.09, 0),
		},
	}
}

// additionalEurope holds microstates that several published tables list
// separately from their neighbours.
func additionalEurope() []domain.CountryTaxProfile {
	return []domain.CountryTaxProfile{
		{
			Name: "Liechtenstein", Code: "LI", Currency: "CHF",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 15000, 0),
				domain.NewBracket(15000, 20000, 0.01),
				domain.NewBracket(20000, 40000, 0.03),
				domain.NewBracket(40000, 70000, 0.04),
				domain.NewBracket(70000, 110000, 0.05),
				domain.NewBracket(110000, 160000, 0.06),
				domain.NewBracket(160000, 200000, 0.065),
				domain.NewBracket(200000, -1, 0.07),
			},
			SocialSecurity: social(0.047, 0),
		},
		{
			Name: "San Marino", Code: "SM", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 10000, 0.09),
				domain.NewBracket(10000, 15000, 0.12),
				domain.NewBracket(15000, 24000, 0.15),
				domain.NewBracket(24000, 35000, 0.18),
				domain.NewBracket(35000, 50000, 0.21),
				domain.NewBracket(50000, 70000, 0.23),
				domain.NewBracket(70000, 100000, 0.27),
				domain.NewBracket(100000, -1, 0.35),
			},
		},
		{
			Name: "Andorra", Code: "AD", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 24000, 0),
				domain.NewBracket(24000, 40000, 0.05),
				domain.NewBracket(40000, -1, 0.10),
			},
			SocialSecurity: social(0.065, 0),
		},
	}
}
