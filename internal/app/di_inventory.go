package app

import (
	"fmt"
	"sync"

	inventoryRepository "github.com/kiwistore/kiwi/internal/inventory/repository"
	inventoryUseCase "github.com/kiwistore/kiwi/internal/inventory/usecase"
)

// inventoryComponents holds the lazily initialized inventory dependencies.
type inventoryComponents struct {
	objectRepo      inventoryUseCase.ObjectRepository
	locationRepo    inventoryUseCase.LocationRepository
	objectUseCase   inventoryUseCase.ObjectUseCase
	locationUseCase inventoryUseCase.LocationUseCase

	objectRepoInit      sync.Once
	locationRepoInit    sync.Once
	objectUseCaseInit   sync.Once
	locationUseCaseInit sync.Once
}

// ObjectRepository returns the object repository instance.
func (c *Container) ObjectRepository() (inventoryUseCase.ObjectRepository, error) {
	c.objectRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["objectRepo"] = fmt.Errorf("failed to get database for object repository: %w", err)
			return
		}
		c.objectRepo = inventoryRepository.NewPostgreSQLObjectRepository(db)
	})
	if storedErr, exists := c.initErrors["objectRepo"]; exists {
		return nil, storedErr
	}
	return c.objectRepo, nil
}

// LocationRepository returns the location repository instance.
func (c *Container) LocationRepository() (inventoryUseCase.LocationRepository, error) {
	c.locationRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["locationRepo"] = fmt.Errorf("failed to get database for location repository: %w", err)
			return
		}
		c.locationRepo = inventoryRepository.NewPostgreSQLLocationRepository(db)
	})
	if storedErr, exists := c.initErrors["locationRepo"]; exists {
		return nil, storedErr
	}
	return c.locationRepo, nil
}

// ObjectUseCase returns the object use case instance.
func (c *Container) ObjectUseCase() (inventoryUseCase.ObjectUseCase, error) {
	c.objectUseCaseInit.Do(func() {
		objectRepo, err := c.ObjectRepository()
		if err != nil {
			c.initErrors["objectUseCase"] = fmt.Errorf("failed to get object repository for object use case: %w", err)
			return
		}

		locationRepo, err := c.LocationRepository()
		if err != nil {
			c.initErrors["objectUseCase"] = fmt.Errorf("failed to get location repository for object use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["objectUseCase"] = fmt.Errorf("failed to get business metrics for object use case: %w", err)
			return
		}

		c.objectUseCase = inventoryUseCase.NewObjectUseCase(objectRepo, locationRepo, c.Logger(), businessMetrics)
	})
	if storedErr, exists := c.initErrors["objectUseCase"]; exists {
		return nil, storedErr
	}
	return c.objectUseCase, nil
}

// LocationUseCase returns the location use case instance.
func (c *Container) LocationUseCase() (inventoryUseCase.LocationUseCase, error) {
	c.locationUseCaseInit.Do(func() {
		locationRepo, err := c.LocationRepository()
		if err != nil {
			c.initErrors["locationUseCase"] = fmt.Errorf("failed to get location repository for location use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["locationUseCase"] = fmt.Errorf("failed to get business metrics for location use case: %w", err)
			return
		}

		c.locationUseCase = inventoryUseCase.NewLocationUseCase(locationRepo, c.Logger(), businessMetrics)
	})
	if storedErr, exists := c.initErrors["locationUseCase"]; exists {
		return nil, storedErr
	}
	return c.locationUseCase, nil
}
