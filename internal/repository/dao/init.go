package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Sponsor{},
		&Business{},
		&Category{},
		&Criterion{},
		&Score{},
		&Umkm{},
		&UmkmStage{},
		&UmkmStageFile{},
		&Notification{},
	)
}
