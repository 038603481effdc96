// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bgg

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/meeple/internal/core/thing"
)

// # Recognised Elements

// elementKind is the closed set of child elements understood inside an `item`.
// Anything else maps to elementUnknown and has its subtree skipped.
type elementKind int

const (
	elementUnknown elementKind = iota
	elementThumbnail
	elementImage
	elementDescription
	elementName
	elementYearPublished
	elementMinPlayTime
	elementMaxPlayTime
	elementPlayingTime
	elementMinPlayers
	elementMaxPlayers
	elementLink
)

var thingElements = map[string]elementKind{
	"thumbnail":     elementThumbnail,
	"image":         elementImage,
	"description":   elementDescription,
	"name":          elementName,
	"yearpublished": elementYearPublished,
	"minplaytime":   elementMinPlayTime,
	"maxplaytime":   elementMaxPlayTime,
	"playingtime":   elementPlayingTime,
	"minplayers":    elementMinPlayers,
	"maxplayers":    elementMaxPlayers,
	"link":          elementLink,
}

// intField returns the Thing field a numeric element populates, or nil.
func intField(kind elementKind, target *thing.Thing) **int {
	switch kind {
	case elementYearPublished:
		return &target.YearPublished
	case elementMinPlayTime:
		return &target.MinDuration
	case elementMaxPlayTime:
		return &target.MaxDuration
	case elementPlayingTime:
		return &target.Duration
	case elementMinPlayers:
		return &target.MinPlayers
	case elementMaxPlayers:
		return &target.MaxPlayers
	}
	return nil
}

// # Search Payloads

// ParseSearch streams a search payload and collects every `item` element's
// id and type. Items without an id are skipped; other elements are ignored.
func ParseSearch(body io.Reader, logger *slog.Logger) ([]thing.SearchItem, error) {
	decoder := xml.NewDecoder(body)
	items := make([]thing.SearchItem, 0)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, malformed("search payload", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}

		id := attr(start, "id")
		if id == "" {
			logger.Debug("bgg_search_item_skipped", slog.String("reason", "missing id"))
			continue
		}
		items = append(items, thing.SearchItem{ID: id, Kind: attr(start, "type")})
	}
}

// # Thing Payloads

// ParseThings streams a thing payload into Things without building a
// document tree.
//
// Everything before the `items` container is skipped; each `item` inside it
// seeds a Thing that is filled until the item's end tag. A numeric field that
// does not parse aborts the whole payload with a [*FieldParseError].
func ParseThings(body io.Reader, logger *slog.Logger) ([]thing.Thing, error) {
	parser := &thingParser{decoder: xml.NewDecoder(body), logger: logger}

	if err := parser.seekItems(); err != nil {
		return nil, err
	}

	things := make([]thing.Thing, 0)
	for {
		token, err := parser.decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil, malformed("unterminated items container", nil)
		}
		if err != nil {
			return nil, malformed("items container", err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local != "item" {
				logger.Debug("bgg_element_skipped", slog.String("element", element.Name.Local))
				if err := parser.skip(); err != nil {
					return nil, err
				}
				continue
			}

			parsed, err := parser.parseItem(element)
			if err != nil {
				return nil, err
			}
			things = append(things, parsed)

		case xml.EndElement:
			// The decoder enforces nesting, so this closes the container.
			return things, nil
		}
	}
}

type thingParser struct {
	decoder *xml.Decoder
	logger  *slog.Logger
}

// seekItems consumes top-level content up to and including the `items` start tag.
func (parser *thingParser) seekItems() error {
	for {
		token, err := parser.decoder.Token()
		if errors.Is(err, io.EOF) {
			return malformed("no items container", nil)
		}
		if err != nil {
			return malformed("before items container", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "items" {
			return nil
		}

		parser.logger.Debug("bgg_element_skipped", slog.String("element", start.Name.Local))
		if err := parser.skip(); err != nil {
			return err
		}
	}
}

// parseItem fills a Thing from the children of one `item` element.
func (parser *thingParser) parseItem(start xml.StartElement) (thing.Thing, error) {
	parsed := thing.Thing{
		BggID: attr(start, "id"),
		Kind:  attr(start, "type"),
	}

	for {
		token, err := parser.decoder.Token()
		if errors.Is(err, io.EOF) {
			return thing.Thing{}, malformed("unterminated item "+parsed.BggID, nil)
		}
		if err != nil {
			return thing.Thing{}, malformed("item "+parsed.BggID, err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			if err := parser.parseChild(&parsed, element); err != nil {
				return thing.Thing{}, err
			}

		case xml.EndElement:
			if element.Name.Local != start.Name.Local {
				return thing.Thing{}, malformed("expected </"+start.Name.Local+"> but found </"+element.Name.Local+">", nil)
			}
			return parsed, nil
		}
	}
}

// parseChild dispatches one child element of an item. On return the child's
// end tag has been consumed.
func (parser *thingParser) parseChild(target *thing.Thing, element xml.StartElement) error {
	kind := thingElements[element.Name.Local]

	switch kind {
	case elementThumbnail, elementImage, elementDescription:
		text, err := parser.readText()
		if err != nil {
			return err
		}
		switch kind {
		case elementThumbnail:
			target.Thumbnail = &text
		case elementImage:
			target.Image = &text
		default:
			target.Description = &text
		}
		return nil

	case elementName:
		value := attr(element, "value")
		switch nameType := attr(element, "type"); nameType {
		case "primary":
			target.Name = &value
		case "alternate":
			target.AltNames = append(target.AltNames, value)
		default:
			parser.logger.Debug("bgg_name_type_ignored",
				slog.String("thing_id", target.BggID),
				slog.String("type", nameType),
			)
		}

	case elementYearPublished, elementMinPlayTime, elementMaxPlayTime,
		elementPlayingTime, elementMinPlayers, elementMaxPlayers:
		raw := attr(element, "value")
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return &FieldParseError{ThingID: target.BggID, Field: element.Name.Local, Value: raw, Err: err}
		}
		*intField(kind, target) = &value

	case elementLink:
		linkType := attr(element, "type")
		linkKind, ok := thing.ParseLinkKind(linkType)
		if !ok {
			parser.logger.Debug("bgg_link_type_ignored",
				slog.String("thing_id", target.BggID),
				slog.String("type", linkType),
			)
			break
		}
		target.AddLink(linkKind, thing.Link{BggID: attr(element, "id"), Name: attr(element, "value")})

	default:
		parser.logger.Debug("bgg_element_skipped",
			slog.String("thing_id", target.BggID),
			slog.String("element", element.Name.Local),
		)
	}

	return parser.skip()
}

// readText collects the character data of the current element up to its end
// tag, ignoring any nested markup.
func (parser *thingParser) readText() (string, error) {
	var builder strings.Builder
	for {
		token, err := parser.decoder.Token()
		if err != nil {
			return "", malformed("reading element text", err)
		}

		switch element := token.(type) {
		case xml.CharData:
			builder.Write(element)
		case xml.StartElement:
			if err := parser.skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			return strings.TrimSpace(builder.String()), nil
		}
	}
}

// skip discards the rest of the most recently opened element.
func (parser *thingParser) skip() error {
	if err := parser.decoder.Skip(); err != nil {
		return malformed("skipping element", err)
	}
	return nil
}

// attr returns the value of the named attribute, or "" when absent.
func attr(element xml.StartElement, name string) string {
	for _, attribute := range element.Attr {
		if attribute.Name.Local == name {
			return attribute.Value
		}
	}
	return ""
}
