package handlers

import "time"

// America/Sao_Paulo for all display formatting
var tzSaoPaulo *time.Location

func init() {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// no tzdata on the host; Brazil has had no DST since 2019
		tzSaoPaulo = time.FixedZone("BRT", -3*3600)
		return
	}
	tzSaoPaulo = loc
}

// FmtDateTime renders e.g. "10/03/2025 às 17:00". Nil reads as empty.
func FmtDateTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(tzSaoPaulo).Format("02/01/2006 às 15:04")
}
