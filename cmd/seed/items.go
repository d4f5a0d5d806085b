package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// charsetReader decodifica la entrada. Las planillas exportadas desde Excel en Windows suelen venir en Latin-1.
func charsetReader(charset string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

// parseItems lee "nome;categoria;unidade;quantidade[;minimo]" (';' o ','), con encabezado opcional.
// Acepta coma decimal ("12,5").
func parseItems(r io.Reader, farmID string, now time.Time) ([]*entity.InventoryItem, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var items []*entity.InventoryItem
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line++
		if len(rec) == 1 && strings.Contains(rec[0], ",") {
			rec = strings.Split(rec[0], ",")
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 4 columnas", line)
		}
		qty, err := parseNumber(rec[3])
		if err != nil || qty.IsNegative() || dto.CheckAmount("quantidade", qty) != nil {
			return nil, fmt.Errorf("línea %d: quantidade inválida %q", line, rec[3])
		}
		item := &entity.InventoryItem{
			ID:              uuid.New().String(),
			FarmID:          farmID,
			Name:            strings.TrimSpace(rec[0]),
			Category:        strings.TrimSpace(rec[1]),
			Unit:            strings.TrimSpace(rec[2]),
			Quantity:        qty,
			InitialQuantity: qty,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if item.Name == "" || item.Category == "" || item.Unit == "" {
			return nil, fmt.Errorf("línea %d: nome, categoria y unidade son obligatorios", line)
		}
		if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
			minLevel, err := parseNumber(rec[4])
			if err != nil || minLevel.IsNegative() || dto.CheckAmount("minimo", minLevel) != nil {
				return nil, fmt.Errorf("línea %d: mínimo inválido %q", line, rec[4])
			}
			item.MinimumLevel = &minLevel
		}
		items = append(items, item)
	}
	return items, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 4 {
		return false
	}
	_, err := parseNumber(rec[3])
	return err != nil
}

func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
