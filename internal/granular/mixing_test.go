package granular

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMixing(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Coefficient Mixing Suite")
}

var _ = Describe("MixGeom", func() {
	It("returns the geometric mean", func() {
		v, err := MixGeom(4, 9)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 6, 1e-12))
	})

	It("is symmetric", func() {
		ab, _ := MixGeom(2.5, 7.1)
		ba, _ := MixGeom(7.1, 2.5)
		Expect(ab).To(Equal(ba))
	})

	It("reduces to the identity for equal inputs", func() {
		v, _ := MixGeom(0.37, 0.37)
		Expect(v).To(BeNumerically("~", 0.37, 1e-15))
	})

	It("rejects negative inputs", func() {
		_, err := MixGeom(-1, 4)
		Expect(err).To(MatchError(ErrInvalidParameters))
	})
})

var _ = Describe("elastic modulus mixing", func() {
	const (
		e1, e2   = 1e7, 4e7
		nu1, nu2 = 0.3, 0.2
	)

	It("is symmetric in the two materials", func() {
		Expect(MixStiffnessE(e1, e2, nu1, nu2)).To(Equal(MixStiffnessE(e2, e1, nu2, nu1)))
		Expect(MixStiffnessG(e1, e2, nu1, nu2)).To(Equal(MixStiffnessG(e2, e1, nu2, nu1)))
	})

	It("reduces to the textbook effective modulus for like materials", func() {
		eff := MixStiffnessE(e1, e1, nu1, nu1)
		Expect(eff).To(BeNumerically("~", e1/(2*(1-nu1*nu1)), 1e-6))
	})

	It("reduces to the textbook effective shear modulus for like materials", func() {
		eff := MixStiffnessG(e1, e1, nu1, nu1)
		Expect(eff).To(BeNumerically("~", e1/(4*(2-nu1)*(1+nu1)), 1e-6))
	})

	It("is dominated by the softer material", func() {
		eff := MixStiffnessE(e1, e2, nu1, nu2)
		soft := MixStiffnessE(e1, e1, nu1, nu1)
		hard := MixStiffnessE(e2, e2, nu2, nu2)
		Expect(eff).To(BeNumerically(">", soft))
		Expect(eff).To(BeNumerically("<", hard))
	})
})

var _ = Describe("wall mixing", func() {
	It("treats the wall as rigid", func() {
		// the one-sided modulus exceeds the two-particle effective modulus
		// of the same material
		wall := MixStiffnessEWall(1e7, 0.3)
		pair := MixStiffnessE(1e7, 1e7, 0.3, 0.3)
		Expect(wall).To(BeNumerically(">", pair))
	})

	It("matches the one-sided formulas", func() {
		Expect(MixStiffnessEWall(1e7, 0.3)).To(BeNumerically("~", 1e7/(2*0.7), 1e-6))
		Expect(MixStiffnessGWall(1e7, 0.3)).To(BeNumerically("~", 1e7/(32*1.7*1.3), 1e-6))
	})
})
