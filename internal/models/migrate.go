package models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Procedure{},
		&BarberProcedure{},
		&WeeklySchedule{},
		&ScheduleException{},
		&Appointment{},
		&AuditLog{},
	)
}
