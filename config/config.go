package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tlemaire/formation-backend/models"
)

var DB *gorm.DB

func InitDB() {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Europe/Paris",
		dbHost, dbUser, dbPass, dbName, dbPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("cannot connect to database:", err)
	}

	DB = db

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("cannot get sql.DB from gorm:", err)
	}

	// Connection pooling
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	err = DB.AutoMigrate(
		&models.Formation{},
		&models.Module{},
		&models.Chapter{},
		&models.Course{},
		&models.Exercise{},
		&models.QCM{},
		&models.QCMQuestion{},
		&models.QCMOption{},
		&models.QCMAttempt{},
		&models.Questionnaire{},
		&models.QuestionnaireQuestion{},
		&models.QuestionnaireResponse{},
		&models.NeedsAnalysisRequest{},
		&models.DocumentCategory{},
		&models.DocumentTemplate{},
		&models.Mentor{},
		&models.Student{},
		&models.MentorAssignment{},
	)
	if err != nil {
		log.Fatal("autoMigrate failed: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
}
