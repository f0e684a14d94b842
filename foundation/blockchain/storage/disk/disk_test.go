package disk_test

import (
	"testing"

	"github.com/ardanlabs/notechain/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/storagetest"
)

func Test_Disk(t *testing.T) {
	d, err := disk.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to open the disk storage: %v", err)
	}
	defer d.Close()

	storagetest.Run(t, d)
}
