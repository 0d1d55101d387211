package ingest

import "github.com/cognicore/wals/pkg/wals/dataset"

// Table names, used in warnings and as default file stems.
const (
	TableParameter     = "parameter"
	TableLanguage      = "language"
	TableValue         = "value"
	TableDomainElement = "domainelement"
)

// Column orders of the WALS exports.
//
//	parameter:     pk, jsondata, id, name, description, markup_description, version
//	language:      pk, jsondata, id, name, description, markup_description, latitude, longitude, version
//	value:         jsondata, id, name, description, markup_description, pk, valueset_pk, domainelement_pk, frequency, confidence, version
//	domainelement: pk, jsondata, id, name, description, markup_description, parameter_pk, number, abbr, version
const (
	parameterWidth     = 7
	languageWidth      = 9
	valueWidth         = 11
	domainElementWidth = 10
)

func decodeParameter(r *row) dataset.Parameter {
	return dataset.Parameter{Record: dataset.Record{
		PK:                r.int(0, "pk"),
		JSONData:          r.str(1),
		ID:                r.str(2),
		Name:              r.str(3),
		Description:       r.str(4),
		MarkupDescription: r.str(5),
		Version:           r.version(6),
	}}
}

func decodeLanguage(r *row) dataset.Language {
	return dataset.Language{
		Record: dataset.Record{
			PK:                r.int(0, "pk"),
			JSONData:          r.str(1),
			ID:                r.str(2),
			Name:              r.str(3),
			Description:       r.str(4),
			MarkupDescription: r.str(5),
			Version:           r.version(8),
		},
		Latitude:  r.degrees(6, "latitude", 90),
		Longitude: r.degrees(7, "longitude", 180),
	}
}

func decodeValue(r *row) dataset.Value {
	return dataset.Value{
		Record: dataset.Record{
			JSONData:          r.str(0),
			ID:                r.str(1),
			Name:              r.str(2),
			Description:       r.str(3),
			MarkupDescription: r.str(4),
			PK:                r.int(5, "pk"),
			Version:           r.version(10),
		},
		ValueSetPK:      r.int(6, "valueset_pk"),
		DomainElementPK: r.int(7, "domainelement_pk"),
		Frequency:       r.str(8),
		Confidence:      r.str(9),
	}
}

func decodeDomainElement(r *row) dataset.DomainElement {
	return dataset.DomainElement{
		Record: dataset.Record{
			PK:                r.int(0, "pk"),
			JSONData:          r.str(1),
			ID:                r.str(2),
			Name:              r.str(3),
			Description:       r.str(4),
			MarkupDescription: r.str(5),
			Version:           r.version(9),
		},
		ParameterPK: r.int(6, "parameter_pk"),
		Number:      r.int(7, "number"),
		Abbr:        r.str(8),
	}
}
