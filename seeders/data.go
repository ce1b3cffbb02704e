package seeders

import (
	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/pkg/utils"
)

// AdminEmail is the account demo data is recorded under.
const AdminEmail = "admin@rental.local"

var usersData = []struct {
	FullName string
	Email    string
	Role     string
}{
	{FullName: "Administrateur", Email: AdminEmail, Role: entities.RoleAdmin},
	{FullName: "Atelier maintenance", Email: "maintenance@rental.local", Role: entities.RoleMaintenance},
	{FullName: "Technicien plateau", Email: "technicien@rental.local", Role: entities.RoleTechnicien},
	{FullName: "Service commercial", Email: "commercial@rental.local", Role: entities.RoleCommercial},
}

var equipmentData = []dto.CreateEquipmentDTO{
	{Name: "Console Yamaha CL5", Category: "SON", Brand: utils.Ptr("Yamaha"), Model: utils.Ptr("CL5"), DailyRentalPrice: 450, QuantityTotal: 2},
	{Name: "Enceinte L-Acoustics KARA II", Category: "SON", Brand: utils.Ptr("L-Acoustics"), Model: utils.Ptr("KARA II"), DailyRentalPrice: 120, QuantityTotal: 24},
	{Name: "Micro HF Shure ULXD", Category: "SON", Brand: utils.Ptr("Shure"), Model: utils.Ptr("ULXD2/B58"), DailyRentalPrice: 35, QuantityTotal: 16},
	{Name: "Lyre Robe MegaPointe", Category: "LUMIERE", Brand: utils.Ptr("Robe"), Model: utils.Ptr("MegaPointe"), DailyRentalPrice: 90, QuantityTotal: 12},
	{Name: "Projecteur PAR LED", Category: "LUMIERE", DailyRentalPrice: 15, QuantityTotal: 40},
	{Name: "Vidéoprojecteur Panasonic 20K", Category: "VIDEO", Brand: utils.Ptr("Panasonic"), Model: utils.Ptr("PT-RZ21K"), DailyRentalPrice: 380, QuantityTotal: 3},
	{Name: "Écran LED module 50cm", Category: "VIDEO", DailyRentalPrice: 25, QuantityTotal: 60},
}

type demoReservation struct {
	Equipment int // index in equipmentData
	Quantity  int
}

var eventsData = []struct {
	Event        dto.CreateEventDTO
	Reservations []demoReservation
}{
	{
		Event: dto.CreateEventDTO{
			EventName:        "Festival d'été",
			ClientName:       "Ville de Lyon",
			ContactPerson:    utils.Ptr("Claire Martin"),
			InstallationDate: "2026-07-10",
			EventDate:        "2026-07-12",
			DismantlingDate:  "2026-07-14",
			Category:         string(entities.EventCategoryMixte),
		},
		Reservations: []demoReservation{{0, 1}, {1, 16}, {2, 8}, {3, 8}, {6, 40}},
	},
	{
		Event: dto.CreateEventDTO{
			EventName:        "Convention annuelle",
			ClientName:       "Groupe Horizon",
			InstallationDate: "2026-09-03",
			EventDate:        "2026-09-04",
			DismantlingDate:  "2026-09-04",
			Category:         string(entities.EventCategoryVideo),
		},
		Reservations: []demoReservation{{5, 2}, {2, 4}, {4, 12}},
	},
}
