package app

import (
	"fmt"

	attachmentHTTP "github.com/allisson/mediavault/internal/attachment/http"
	attachmentRepository "github.com/allisson/mediavault/internal/attachment/repository"
	attachmentUsecase "github.com/allisson/mediavault/internal/attachment/usecase"
)

// AttachmentRepository returns the attachment repository based on database driver.
func (c *Container) AttachmentRepository() (attachmentUsecase.AttachmentRepository, error) {
	var err error
	c.attachmentRepoInit.Do(func() {
		c.attachmentRepo, err = c.initAttachmentRepository()
		if err != nil {
			c.initErrors["attachmentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["attachmentRepo"]; exists {
		return nil, storedErr
	}
	return c.attachmentRepo, nil
}

// DownloadQueueRepository returns the download queue repository based on
// database driver.
func (c *Container) DownloadQueueRepository() (attachmentUsecase.DownloadQueueRepository, error) {
	var err error
	c.downloadQueueRepoInit.Do(func() {
		c.downloadQueueRepo, err = c.initDownloadQueueRepository()
		if err != nil {
			c.initErrors["downloadQueueRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["downloadQueueRepo"]; exists {
		return nil, storedErr
	}
	return c.downloadQueueRepo, nil
}

// AttachmentService returns the attachment service.
func (c *Container) AttachmentService() (*attachmentUsecase.AttachmentService, error) {
	var err error
	c.attachmentServiceInit.Do(func() {
		c.attachmentService, err = c.initAttachmentService()
		if err != nil {
			c.initErrors["attachmentService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["attachmentService"]; exists {
		return nil, storedErr
	}
	return c.attachmentService, nil
}

// AttachmentHandler returns the HTTP handler for attachment state queries.
func (c *Container) AttachmentHandler() (*attachmentHTTP.AttachmentHandler, error) {
	var err error
	c.attachmentHandlerInit.Do(func() {
		c.attachmentHandler, err = c.initAttachmentHandler()
		if err != nil {
			c.initErrors["attachmentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["attachmentHandler"]; exists {
		return nil, storedErr
	}
	return c.attachmentHandler, nil
}

// initAttachmentRepository creates the attachment repository instance.
func (c *Container) initAttachmentRepository() (attachmentUsecase.AttachmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for attachment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return attachmentRepository.NewMySQLAttachmentRepository(db), nil
	case "postgres":
		return attachmentRepository.NewPostgreSQLAttachmentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDownloadQueueRepository creates the download queue repository instance.
func (c *Container) initDownloadQueueRepository() (attachmentUsecase.DownloadQueueRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for download queue repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return attachmentRepository.NewMySQLDownloadQueueRepository(db), nil
	case "postgres":
		return attachmentRepository.NewPostgreSQLDownloadQueueRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAttachmentService creates the attachment service with all its dependencies.
func (c *Container) initAttachmentService() (*attachmentUsecase.AttachmentService, error) {
	attachmentRepo, err := c.AttachmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment repository for attachment service: %w", err)
	}

	queueRepo, err := c.DownloadQueueRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get download queue repository for attachment service: %w", err)
	}

	backupMetrics, err := c.BackupMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get backup metrics for attachment service: %w", err)
	}

	return attachmentUsecase.NewAttachmentService(
		attachmentRepo,
		queueRepo,
		backupMetrics,
		c.Logger(),
		nil,
		c.config.UploadReuseWindow,
	), nil
}

// initAttachmentHandler creates the attachment HTTP handler.
func (c *Container) initAttachmentHandler() (*attachmentHTTP.AttachmentHandler, error) {
	service, err := c.AttachmentService()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment service for attachment handler: %w", err)
	}
	return attachmentHTTP.NewAttachmentHandler(service, c.Logger()), nil
}
