package store

import "garage_hub/internal/models"

// VehicleOption is the minimal projection the booking form consumes.
type VehicleOption struct {
	ID    uint   `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Plate string `json:"plate"`
}

func OptionFromVehicle(v models.Vehicle) VehicleOption {
	return VehicleOption{
		ID:    v.ID,
		Make:  v.Make,
		Model: v.VehModel,
		Year:  v.Year,
		Plate: v.Plate,
	}
}

// VehicleListing is the enriched projection for listing UIs.
type VehicleListing struct {
	Name           string `json:"name"`
	RegistrationNo string `json:"registrationNo"`
	CarType        string `json:"carType"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	VehicleID      uint   `json:"vehicleId"`
	OwnerID        *uint  `json:"ownerId"`
}

// ListingFromVehicle shapes a vehicle for the listing UI. Status is "Active"
// only when the vehicle and its resolved owning user are both active.
func ListingFromVehicle(v models.Vehicle) VehicleListing {
	l := VehicleListing{
		Name:           "Unknown",
		RegistrationNo: v.Plate,
		CarType:        v.CarType,
		Status:         "Inactive",
		VehicleID:      v.ID,
		OwnerID:        v.OwnerID,
	}
	if v.Owner != nil {
		if v.Owner.Name != "" {
			l.Name = v.Owner.Name
		}
		l.Email = v.Owner.Email
		if v.IsActive && v.Owner.IsActive {
			l.Status = "Active"
		}
	} else if v.OwnerVariant() == models.OwnerEmbedded {
		if v.OwnerName != "" {
			l.Name = v.OwnerName
		}
		l.Email = v.OwnerEmail
	}
	return l
}
