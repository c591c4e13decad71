package models

import (
	"time"
)

type Customer struct {
	ID       string `json:"id" gorm:"primaryKey;type:text"`
	Name     string `json:"name" gorm:"type:text;not null"`
	Email    string `json:"email" gorm:"type:text;not null"`
	ImageURL string `json:"imageUrl" gorm:"type:text"`
}

type Invoice struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	CustomerID string    `json:"customerId" gorm:"type:text;not null;index"`
	Customer   Customer  `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE;"`
	Amount     int64     `json:"amount" gorm:"not null"`
	Status     string    `json:"status" gorm:"type:text;not null"`
	Date       string    `json:"date" gorm:"type:date;not null"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type User struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	Name     string    `json:"name" gorm:"type:text;not null"`
	Email    string    `json:"email" gorm:"type:text;index:user_email,unique;not null"`
	Password string    `json:"-" gorm:"type:text;not null"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
