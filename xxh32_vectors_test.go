package tron

import "testing"

// generateSanityBuffer reproduces the xxHash reference test generator: a
// deterministic byte sequence derived from repeated multiplication by the
// 64-bit prime, keeping only the top byte of each step.
func generateSanityBuffer(size int) []byte {
	const prime32 uint64 = 2654435761
	const prime64 uint64 = 11400714785074694797
	buffer := make([]byte, size)
	byteGen := prime32
	for i := 0; i < size; i++ {
		buffer[i] = byte(byteGen >> 56)
		byteGen *= prime64
	}
	return buffer
}

func TestXXH32KnownVectors(t *testing.T) {
	buf := generateSanityBuffer(101)
	cases := []struct {
		name string
		data []byte
		seed uint32
		want uint32
	}{
		{"empty-seed0", nil, 0, 0x02CC5D05},
		{"empty-seed-prime", nil, 2654435761, 0x36B78AE7},
		{"len1-seed0", buf[:1], 0, 0xCF65B03E},
		{"len1-seed-prime", buf[:1], 2654435761, 0xB4545AA4},
		{"len14-seed0", buf[:14], 0, 0xE5AA0AB4},
		{"len14-seed-prime", buf[:14], 2654435761, 0x4481951D},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := XXH32(c.data, c.seed)
			if got != c.want {
				t.Fatalf("XXH32(%s) = 0x%08X, want 0x%08X", c.name, got, c.want)
			}
		})
	}
}

func TestXXH32SelfConsistency(t *testing.T) {
	buf := generateSanityBuffer(1024)
	for _, n := range []int{0, 1, 3, 4, 5, 8, 13, 16, 17, 32, 63, 64, 100, 1024} {
		got1 := XXH32(buf[:n], 0)
		got2 := XXH32(buf[:n], 0)
		if got1 != got2 {
			t.Fatalf("XXH32 not deterministic at len=%d", n)
		}
		if n > 0 {
			withSeed := XXH32(buf[:n], 1)
			if withSeed == got1 {
				t.Fatalf("seed had no effect at len=%d", n)
			}
		}
	}
}
