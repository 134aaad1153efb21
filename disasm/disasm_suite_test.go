package disasm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDisasm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Disasm Suite")
}
