package entity

import "time"

// Farm representa una granja; todos los datos operativos se delimitan por FarmID.
type Farm struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
