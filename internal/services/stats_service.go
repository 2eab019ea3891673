package services

import (
	"reliefmarket/internal/domain"
	"reliefmarket/internal/repos"
)

// StatsService aggregates the admin dashboard counters.
type StatsService struct {
	Users     *repos.UserRepo
	Products  *repos.ProductRepo
	Orders    *repos.OrderRepo
	Zones     *repos.ZoneRepo
	Locations *repos.LocationRepo
}

func (s *StatsService) Dashboard() (domain.DashboardStats, error) {
	var out domain.DashboardStats

	uc, err := s.Users.Counts()
	if err != nil {
		return out, err
	}
	out.TotalUsers = uc.Total
	out.TotalVictims = uc.Victims
	out.TotalManufacturers = uc.Manufacturers

	if out.TotalProducts, err = s.Products.Count(); err != nil {
		return out, err
	}

	ot, err := s.Orders.Totals()
	if err != nil {
		return out, err
	}
	out.TotalOrders = ot.Count
	out.TotalValue = ot.Value

	if out.ActiveDisasterZones, err = s.Zones.CountActive(); err != nil {
		return out, err
	}
	if out.ActivePickupLocations, err = s.Locations.CountActive(); err != nil {
		return out, err
	}
	return out, nil
}
