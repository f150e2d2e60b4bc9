package flow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/safestay/shelter-bot/internal/models"
)

// Action is a decoded button press. Callback payloads are parsed once at
// the transport boundary and matched exhaustively, so raw payload strings
// never travel further than this package.
type Action interface{ isAction() }

type (
	// MainMenu returns the user to the main menu.
	MainMenu struct{}
	// PostAd enters the ad creation flow.
	PostAd struct{}
	// AllAds lists every published ad.
	AllAds struct{}
	// MyAds lists the requester's ads.
	MyAds struct{}
	// SearchByArea shows the area filter keyboard.
	SearchByArea struct{}
	// SelectArea answers the area question of the creation flow.
	SelectArea struct{ Area models.Area }
	// FilterArea lists ads in one area.
	FilterArea struct{ Area models.Area }
	// EditAd enters the edit flow for one ad.
	EditAd struct{ AdID int64 }
	// DeleteAd removes the requester's ad.
	DeleteAd struct{ AdID int64 }
	// ReportAd flags an ad for moderation.
	ReportAd struct{ AdID int64 }
	// EditField picks which field the edit flow targets.
	EditField struct{ Field models.Field }
	// SetValue answers the edit-value question from a button.
	SetValue struct{ Value string }
)

func (MainMenu) isAction()     {}
func (PostAd) isAction()       {}
func (AllAds) isAction()       {}
func (MyAds) isAction()        {}
func (SearchByArea) isAction() {}
func (SelectArea) isAction()   {}
func (FilterArea) isAction()   {}
func (EditAd) isAction()       {}
func (DeleteAd) isAction()     {}
func (ReportAd) isAction()     {}
func (EditField) isAction()    {}
func (SetValue) isAction()     {}

// Payload prefixes and tokens as they appear in callback data.
const (
	payloadMainMenu     = "main_menu"
	payloadPostAd       = "post_ad"
	payloadAllAds       = "all_ads"
	payloadMyAds        = "my_ads"
	payloadSearchByArea = "search_by_area"
	prefixArea          = "area:"
	prefixAreaFilter    = "area_filter:"
	prefixEdit          = "edit:"
	prefixDelete        = "delete:"
	prefixReport        = "report:"
	prefixField         = "field:"
	prefixValue         = "value:"
)

// ParseAction decodes a callback payload into a typed Action.
func ParseAction(data string) (Action, error) {
	switch data {
	case payloadMainMenu:
		return MainMenu{}, nil
	case payloadPostAd:
		return PostAd{}, nil
	case payloadAllAds:
		return AllAds{}, nil
	case payloadMyAds:
		return MyAds{}, nil
	case payloadSearchByArea:
		return SearchByArea{}, nil
	}

	prefix, arg, found := strings.Cut(data, ":")
	if !found {
		return nil, fmt.Errorf("unknown action %q", data)
	}
	prefix += ":"

	switch prefix {
	case prefixArea, prefixAreaFilter:
		area := models.Area(arg)
		if !area.Valid() {
			return nil, fmt.Errorf("unknown area %q", arg)
		}
		if prefix == prefixArea {
			return SelectArea{Area: area}, nil
		}
		return FilterArea{Area: area}, nil
	case prefixEdit, prefixDelete, prefixReport:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ad id %q: %w", arg, err)
		}
		switch prefix {
		case prefixEdit:
			return EditAd{AdID: id}, nil
		case prefixDelete:
			return DeleteAd{AdID: id}, nil
		default:
			return ReportAd{AdID: id}, nil
		}
	case prefixField:
		field := models.Field(arg)
		if !field.Valid() {
			return nil, fmt.Errorf("unknown field %q", arg)
		}
		return EditField{Field: field}, nil
	case prefixValue:
		return SetValue{Value: arg}, nil
	}

	return nil, fmt.Errorf("unknown action %q", data)
}
