package model

// Settings are stored as one JSON value per logical key in the settings
// table, mirrored to local files. Each key decodes into its own struct at
// the store boundary instead of being passed around as a raw blob.

const (
	SettingsKeyRestaurant    = "restaurant"
	SettingsKeyReceipt       = "receipt"
	SettingsKeySystem        = "system"
	SettingsKeyNotifications = "notifications"
)

type RestaurantSettings struct {
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	Phone             string  `json:"phone"`
	ServiceCharge     float64 `json:"serviceCharge"` // percent
	AutoServiceCharge bool    `json:"autoServiceCharge"`
	Currency          string  `json:"currency"` // USD or LKR
}

func DefaultRestaurantSettings() RestaurantSettings {
	return RestaurantSettings{
		ServiceCharge:     8.5,
		AutoServiceCharge: true,
		Currency:          "USD",
	}
}

type ReceiptSettings struct {
	HeaderText         string `json:"headerText"`
	FooterText         string `json:"footerText"`
	ShowLogo           bool   `json:"showLogo"`
	PrintAutomatically bool   `json:"printAutomatically"`
}

type SystemSettings struct {
	Users    []User `json:"users"`
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

type NotificationSettings struct {
	Sound           bool `json:"sound"`
	PopupOnNewOrder bool `json:"popupOnNewOrder"`
}
