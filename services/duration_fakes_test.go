package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
)

// fakeCache is a plain map standing in for the gocache backend, with a trace
// of invalidations so tests can assert ordering.
type fakeCache struct {
	entries     map[string]int
	computes    int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]int{}}
}

func (f *fakeCache) Fetch(key string, _ time.Duration, compute func() int) int {
	if v, ok := f.entries[key]; ok {
		return v
	}
	f.computes++
	n := compute()
	f.entries[key] = n
	return n
}

func (f *fakeCache) Invalidate(key string) {
	delete(f.entries, key)
	f.invalidated = append(f.invalidated, key)
}

type savedWrite struct {
	kind  EntityKind
	id    uuid.UUID
	value int
}

// fakeStore keeps the tree in maps and records every snapshot write. failOn
// makes the matching save fail so transaction behaviour can be exercised.
type fakeStore struct {
	formations map[uuid.UUID]*models.Formation
	modules    map[uuid.UUID]*models.Module
	chapters   map[uuid.UUID]*models.Chapter
	courses    map[uuid.UUID]*models.Course
	exercises  map[uuid.UUID]*models.Exercise
	qcms       map[uuid.UUID]*models.QCM

	saves        []savedWrite
	failOn       EntityKind
	transactions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		formations: map[uuid.UUID]*models.Formation{},
		modules:    map[uuid.UUID]*models.Module{},
		chapters:   map[uuid.UUID]*models.Chapter{},
		courses:    map[uuid.UUID]*models.Course{},
		exercises:  map[uuid.UUID]*models.Exercise{},
		qcms:       map[uuid.UUID]*models.QCM{},
	}
}

func (f *fakeStore) Formation(id uuid.UUID) (*models.Formation, error) {
	if v, ok := f.formations[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) Module(id uuid.UUID) (*models.Module, error) {
	if v, ok := f.modules[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) Chapter(id uuid.UUID) (*models.Chapter, error) {
	if v, ok := f.chapters[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) Course(id uuid.UUID) (*models.Course, error) {
	if v, ok := f.courses[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) Exercise(id uuid.UUID) (*models.Exercise, error) {
	if v, ok := f.exercises[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) QCM(id uuid.UUID) (*models.QCM, error) {
	if v, ok := f.qcms[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) save(kind EntityKind, id uuid.UUID, value int) error {
	if f.failOn == kind {
		return fmt.Errorf("save %s failed", kind)
	}
	f.saves = append(f.saves, savedWrite{kind: kind, id: id, value: value})
	return nil
}

func (f *fakeStore) SaveFormationDuration(id uuid.UUID, hours int) error {
	if err := f.save(KindFormation, id, hours); err != nil {
		return err
	}
	f.formations[id].DurationHours = hours
	return nil
}

func (f *fakeStore) SaveModuleDuration(id uuid.UUID, hours int) error {
	if err := f.save(KindModule, id, hours); err != nil {
		return err
	}
	f.modules[id].DurationHours = hours
	return nil
}

func (f *fakeStore) SaveChapterDuration(id uuid.UUID, minutes int) error {
	if err := f.save(KindChapter, id, minutes); err != nil {
		return err
	}
	f.chapters[id].DurationMinutes = minutes
	return nil
}

func (f *fakeStore) SaveCourseDuration(id uuid.UUID, minutes int) error {
	if err := f.save(KindCourse, id, minutes); err != nil {
		return err
	}
	f.courses[id].DurationMinutes = minutes
	return nil
}

// storeSnapshot captures every duration snapshot so Transaction can roll the
// fake back the way the real database would.
type storeSnapshot struct {
	formationHours map[uuid.UUID]int
	moduleHours    map[uuid.UUID]int
	chapterMinutes map[uuid.UUID]int
	courseMinutes  map[uuid.UUID]int
}

func (f *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		formationHours: map[uuid.UUID]int{},
		moduleHours:    map[uuid.UUID]int{},
		chapterMinutes: map[uuid.UUID]int{},
		courseMinutes:  map[uuid.UUID]int{},
	}
	for id, v := range f.formations {
		snap.formationHours[id] = v.DurationHours
	}
	for id, v := range f.modules {
		snap.moduleHours[id] = v.DurationHours
	}
	for id, v := range f.chapters {
		snap.chapterMinutes[id] = v.DurationMinutes
	}
	for id, v := range f.courses {
		snap.courseMinutes[id] = v.DurationMinutes
	}
	return snap
}

func (f *fakeStore) restore(snap storeSnapshot) {
	for id, v := range snap.formationHours {
		f.formations[id].DurationHours = v
	}
	for id, v := range snap.moduleHours {
		f.modules[id].DurationHours = v
	}
	for id, v := range snap.chapterMinutes {
		f.chapters[id].DurationMinutes = v
	}
	for id, v := range snap.courseMinutes {
		f.courses[id].DurationMinutes = v
	}
}

func (f *fakeStore) Transaction(fn func(DurationStore) error) error {
	f.transactions++
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func intPtr(n int) *int { return &n }

// fixture is one fully linked formation tree:
//
//	formation
//	  module
//	    chapter
//	      course (base 30) + exercise 15 + qcm 20  -> 65 min
type fixture struct {
	store     *fakeStore
	formation *models.Formation
	module    *models.Module
	chapter   *models.Chapter
	course    *models.Course
	exercise  *models.Exercise
	qcm       *models.QCM
}

func newFixture() *fixture {
	store := newFakeStore()

	formationID := uuid.New()
	moduleID := uuid.New()
	chapterID := uuid.New()
	courseID := uuid.New()
	exerciseID := uuid.New()
	qcmID := uuid.New()

	exercise := &models.Exercise{
		ID: exerciseID, CourseID: courseID, Title: "TP réseau",
		EstimatedDurationMinutes: intPtr(15), IsActive: true,
	}
	qcm := &models.QCM{
		ID: qcmID, CourseID: courseID, Title: "QCM réseau",
		TimeLimitMinutes: intPtr(20), IsActive: true,
	}
	course := &models.Course{
		ID: courseID, ChapterID: chapterID, Title: "Adressage IP",
		BaseDurationMinutes: 30, IsActive: true,
		Exercises: []models.Exercise{*exercise},
		QCMs:      []models.QCM{*qcm},
	}
	chapter := &models.Chapter{
		ID: chapterID, ModuleID: moduleID, Title: "Réseaux",
		IsActive: true,
		Courses:  []models.Course{*course},
	}
	module := &models.Module{
		ID: moduleID, FormationID: formationID, Title: "Infrastructure",
		IsActive: true,
		Chapters: []models.Chapter{*chapter},
	}
	formation := &models.Formation{
		ID: formationID, Title: "Administration systèmes",
		IsActive: true,
		Modules:  []models.Module{*module},
	}

	store.exercises[exerciseID] = exercise
	store.qcms[qcmID] = qcm
	store.courses[courseID] = course
	store.chapters[chapterID] = chapter
	store.modules[moduleID] = module
	store.formations[formationID] = formation

	return &fixture{
		store:     store,
		formation: formation,
		module:    module,
		chapter:   chapter,
		course:    course,
		exercise:  exercise,
		qcm:       qcm,
	}
}
