package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	CycleRecords *CycleRecordRepository
	UserEvents   *UserEventRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		CycleRecords: NewCycleRecordRepository(database),
		UserEvents:   NewUserEventRepository(database),
	}
}
