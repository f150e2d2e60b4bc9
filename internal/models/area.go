package models

// Area is one of the fixed regions an ad can be posted under.
type Area string

const (
	AreaNorth  Area = "צפון"
	AreaCenter Area = "מרכז"
	AreaSouth  Area = "דרום"
	AreaOther  Area = "אחר"
)

// Areas lists the choices offered when posting an ad, in keyboard order.
var Areas = []Area{AreaNorth, AreaCenter, AreaSouth, AreaOther}

// SearchAreas lists the choices offered when filtering or editing.
// "Other" is not a searchable region.
var SearchAreas = []Area{AreaNorth, AreaCenter, AreaSouth}

func (a Area) Valid() bool {
	switch a {
	case AreaNorth, AreaCenter, AreaSouth, AreaOther:
		return true
	}
	return false
}
