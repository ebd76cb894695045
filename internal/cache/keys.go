package cache

import (
	"strconv"

	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
)

const (
	CategoriesPrefix = "categories:"
	ProvidersPrefix  = "providers:"
	ServicesPrefix   = "services:"
)

func CategoriesListKey() string {
	return CategoriesPrefix + "list:v1"
}

func ProvidersListKey(f provider.ListFilter) string {
	return ProvidersPrefix + "list:v1" +
		":category=" + deref(f.CategoryID) +
		":city=" + deref(provider.NormalizeCity(f.City)) +
		":verified=" + boolKey(f.Verified)
}

func ServicesListKey(f service.ListFilter) string {
	return ServicesPrefix + "list:v1" +
		":category=" + deref(f.CategoryID) +
		":provider=" + deref(f.ProviderID) +
		":city=" + deref(provider.NormalizeCity(f.City)) +
		":verified=" + boolKey(f.Verified)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolKey(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
