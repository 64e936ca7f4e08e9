package delivery

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/mudensity"
)

// record is the file form of a Delivery. JSON documents decode too, being
// valid YAML.
type record struct {
	MonitorUnits []float64      `yaml:"monitor_units"`
	Gantry       []float64      `yaml:"gantry"`
	Collimator   []float64      `yaml:"collimator"`
	MLC          [][][2]float64 `yaml:"mlc,flow"`
	Jaw          [][2]float64   `yaml:"jaw,flow"`
}

// Decode reads a single record from r. Unknown fields are rejected.
func Decode(r io.Reader) (Delivery, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	d, err := decodeNext(dec)
	if errors.Is(err, io.EOF) {
		return Delivery{}, errors.New("delivery: decode: empty document")
	}
	return d, err
}

// DecodeAll reads every record of a multi-document YAML stream, one beam
// per document.
func DecodeAll(r io.Reader) ([]Delivery, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []Delivery
	for {
		d, err := decodeNext(dec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("delivery: document %d: %w", len(out), err)
		}
		out = append(out, d)
	}
}

// Encode writes d to w as a YAML document.
func Encode(w io.Writer, d Delivery) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.toRecord()); err != nil {
		return fmt.Errorf("delivery: encode: %w", err)
	}
	return enc.Close()
}

func decodeNext(dec *yaml.Decoder) (Delivery, error) {
	var rec record
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Delivery{}, err
		}
		return Delivery{}, fmt.Errorf("delivery: decode: %w", err)
	}
	return rec.toDelivery()
}

func (rec record) toDelivery() (Delivery, error) {
	mlc := make([][]mudensity.LeafPair, len(rec.MLC))
	for i, cp := range rec.MLC {
		mlc[i] = make([]mudensity.LeafPair, len(cp))
		for p, pair := range cp {
			mlc[i][p] = mudensity.LeafPair(pair)
		}
	}
	jaw := make([]mudensity.JawPair, len(rec.Jaw))
	for i, pair := range rec.Jaw {
		jaw[i] = mudensity.JawPair(pair)
	}
	return New(rec.MonitorUnits, rec.Gantry, rec.Collimator, mlc, jaw)
}

func (d Delivery) toRecord() record {
	rec := record{
		MonitorUnits: d.MonitorUnits(),
		Gantry:       d.Gantry(),
		Collimator:   d.Collimator(),
		MLC:          make([][][2]float64, len(d.mlc)),
		Jaw:          make([][2]float64, len(d.jaw)),
	}
	for i, cp := range d.mlc {
		rec.MLC[i] = make([][2]float64, len(cp))
		for p, pair := range cp {
			rec.MLC[i][p] = pair
		}
	}
	for i, pair := range d.jaw {
		rec.Jaw[i] = pair
	}
	return rec
}
