package store

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"garage_hub/internal/models"
)

// Principal is the authenticated caller as decoded from the JWT claims.
type Principal struct {
	UserID uint
	OrgID  *uint
	Role   string
}

// VehicleListOptions controls filtering and paging of a vehicle listing.
type VehicleListOptions struct {
	Page   int
	Limit  int
	Search string
	// OwnerID narrows the result to one owner's vehicles (booking-form
	// prefill). It replaces the identity-OR-org filter, still constrained
	// to the caller's organization when the caller has one.
	OwnerID *uint
}

// VehiclePage is one page of accessible vehicles plus paging metadata.
type VehiclePage struct {
	Items []models.Vehicle
	Total int64
	Page  int
	Limit int
	Pages int
}

// VehicleStore answers every vehicle query scoped to what a principal may
// see: a vehicle is accessible iff its owner is the caller or it belongs to
// the caller's organization.
type VehicleStore struct {
	db *gorm.DB
}

func NewVehicleStore(db *gorm.DB) *VehicleStore {
	return &VehicleStore{db: db}
}

// scope applies the identity-OR-org access filter.
func (s *VehicleStore) scope(ctx context.Context, p Principal) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Vehicle{})
	if p.OrgID != nil {
		return q.Where("owner_id = ? OR organization_id = ?", p.UserID, *p.OrgID)
	}
	return q.Where("owner_id = ?", p.UserID)
}

// List returns one page of vehicles the principal may see.
func (s *VehicleStore) List(ctx context.Context, p Principal, opts VehicleListOptions) (VehiclePage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	var q *gorm.DB
	if opts.OwnerID != nil {
		q = s.db.WithContext(ctx).Model(&models.Vehicle{}).Where("owner_id = ?", *opts.OwnerID)
		if p.OrgID != nil {
			q = q.Where("organization_id = ?", *p.OrgID)
		}
	} else {
		q = s.scope(ctx, p)
	}

	if search := strings.TrimSpace(opts.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(plate) LIKE ? OR LOWER(make) LIKE ? OR LOWER(model) LIKE ? OR LOWER(owner_name) LIKE ?",
			needle, needle, needle, needle,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return VehiclePage{}, err
	}

	var items []models.Vehicle
	err := q.Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return VehiclePage{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return VehiclePage{Items: items, Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

// FindAccessible resolves a single vehicle under the access filter. An
// existing vehicle the principal may not see is indistinguishable from a
// missing one: both return gorm.ErrRecordNotFound.
func (s *VehicleStore) FindAccessible(ctx context.Context, p Principal, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.scope(ctx, p).Preload("Owner").Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// SetImageURL stores a generated image reference on the vehicle record.
func (s *VehicleStore) SetImageURL(ctx context.Context, id uint, url string) error {
	return s.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", id).
		Update("image_url", url).Error
}

// VehicleMetrics are summary counts over a principal's accessible vehicles.
type VehicleMetrics struct {
	TotalVehicles  int64
	ActiveVehicles int64
	TotalOwners    int64
	ActiveOwners   int64
	// ChangePercentage is a placeholder trend figure; there is no
	// historical data to derive a real one from.
	ChangePercentage float64
}

const placeholderTrend = 12.5

// Metrics computes the dashboard counters for a principal.
func (s *VehicleStore) Metrics(ctx context.Context, p Principal) (VehicleMetrics, error) {
	m := VehicleMetrics{ChangePercentage: placeholderTrend}

	if err := s.scope(ctx, p).Count(&m.TotalVehicles).Error; err != nil {
		return VehicleMetrics{}, err
	}
	if err := s.scope(ctx, p).Where("is_active = ?", true).Count(&m.ActiveVehicles).Error; err != nil {
		return VehicleMetrics{}, err
	}

	var ownerIDs []uint
	err := s.scope(ctx, p).Where("owner_id IS NOT NULL").
		Distinct().Pluck("owner_id", &ownerIDs).Error
	if err != nil {
		return VehicleMetrics{}, err
	}
	m.TotalOwners = int64(len(ownerIDs))

	if len(ownerIDs) > 0 {
		err = s.db.WithContext(ctx).Model(&models.User{}).
			Where("id IN ? AND is_active = ?", ownerIDs, true).
			Count(&m.ActiveOwners).Error
		if err != nil {
			return VehicleMetrics{}, err
		}
	}
	return m, nil
}

// RosterEntry is one distinct client of a garage.
type RosterEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"` // "registered" or "embedded"
}

// ClientRoster lists each distinct client with an active vehicle at the
// garage exactly once. Registered owners key by user id; embedded owners by
// a prefixed phone-or-email key so the two namespaces cannot collide.
// First seen wins on duplicates.
func (s *VehicleStore) ClientRoster(ctx context.Context, orgID uint) ([]RosterEntry, error) {
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).Preload("Owner").
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("created_at ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	roster := make([]RosterEntry, 0, len(vehicles))
	for _, v := range vehicles {
		var entry RosterEntry
		switch v.OwnerVariant() {
		case models.OwnerRegistered:
			entry = RosterEntry{
				ID:   strconv.FormatUint(uint64(*v.OwnerID), 10),
				Name: "Unknown",
				Type: "registered",
			}
			if v.Owner != nil {
				if v.Owner.Name != "" {
					entry.Name = v.Owner.Name
				}
				entry.Email = v.Owner.Email
				entry.Phone = v.Owner.Phone
			}
		case models.OwnerEmbedded:
			contact := v.OwnerPhone
			if contact == "" {
				contact = v.OwnerEmail
			}
			entry = RosterEntry{
				ID:    "embedded:" + contact,
				Name:  v.OwnerName,
				Email: v.OwnerEmail,
				Phone: v.OwnerPhone,
				Type:  "embedded",
			}
			if entry.Name == "" {
				entry.Name = "Unknown"
			}
		default:
			continue
		}

		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		roster = append(roster, entry)
	}
	return roster, nil
}
