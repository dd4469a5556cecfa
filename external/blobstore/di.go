package blobstore

import (
	"github.com/overmindlabs/overmind/internal/blobstore"
	"github.com/overmindlabs/overmind/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (blobstore.Store, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewMinioStore(MinioConfig{
			Endpoint:     c.StorageEndpoint,
			AccessKey:    c.StorageAccessKey,
			SecretKey:    c.StorageSecretKey,
			Bucket:       c.StorageBucket,
			Region:       c.StorageRegion,
			UseSSL:       c.StorageUseSSL,
			FolderPrefix: c.StorageFolderPrefix,
		})
	})
}
