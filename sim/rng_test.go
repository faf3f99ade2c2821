package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces the same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	vals1 := make([]float64, 3)
	vals2 := make([]float64, 3)

	for i := 0; i < 3; i++ {
		vals1[i] = rng1.ForMachine("press").Float64()
	}
	for i := 0; i < 3; i++ {
		vals2[i] = rng2.ForMachine("press").Float64()
	}

	for i := 0; i < 3; i++ {
		if vals1[i] != vals2[i] {
			t.Errorf("Value %d: got %v and %v, want identical", i, vals1[i], vals2[i])
		}
	}
}

func TestPartitionedRNG_MachineIsolation(t *testing.T) {
	// Drawing from one machine's stream doesn't affect another's
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	// Burn 10 values on A's press stream (this should NOT affect welder)
	for i := 0; i < 10; i++ {
		rngA.ForMachine("press").Float64()
	}

	// Burn 5 values on B's welder stream
	for i := 0; i < 5; i++ {
		rngB.ForMachine("welder").Float64()
	}

	// A's welder should still produce the 1st value of the welder sequence
	aWelderFirst := rngA.ForMachine("welder").Float64()

	// B's welder is on its 6th value by now
	bWelderSixth := rngB.ForMachine("welder").Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForMachine("welder").Float64()

	if aWelderFirst != expectedFirst {
		t.Errorf("A's welder first value = %v, want %v (isolation broken)", aWelderFirst, expectedFirst)
	}
	if bWelderSixth == expectedFirst {
		t.Error("B's 6th welder value equals 1st value - unexpected")
	}
}

func TestPartitionedRNG_DerivationFormula(t *testing.T) {
	// A machine stream is seeded with masterSeed XOR fnv1a64(subsystem name)
	seed := int64(42)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	machineRNG := rng.ForMachine("press")
	directRNG := rand.New(rand.NewSource(seed ^ fnv1a64(SubsystemMachine("press"))))

	for i := 0; i < 10; i++ {
		got := machineRNG.Float64()
		want := directRNG.Float64()
		if got != want {
			t.Errorf("Value %d: machine RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	// Same name returns the same *rand.Rand instance
	rng := NewPartitionedRNG(NewSimulationKey(42))

	rng1 := rng.ForMachine("press")
	rng2 := rng.ForMachine("press")

	if rng1 != rng2 {
		t.Error("ForMachine returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	seed := int64(12345)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	if rng.Key() != SimulationKey(seed) {
		t.Errorf("Key() = %v, want %v", rng.Key(), seed)
	}
}

func TestPartitionedRNG_ZeroSeed(t *testing.T) {
	// Seed 0 is a valid seed, not "unset"
	rng := NewPartitionedRNG(NewSimulationKey(0))

	press := rng.ForMachine("press")
	if press == nil {
		t.Fatal("ForMachine returned nil with zero seed")
	}

	rng2 := NewPartitionedRNG(NewSimulationKey(0))
	if press.Float64() != rng2.ForMachine("press").Float64() {
		t.Error("Zero seed not deterministic across instances")
	}
}

func TestPartitionedRNG_NegativeSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(math.MinInt64))

	val := rng.ForMachine("press").Float64()
	if val < 0 || val >= 1 {
		t.Errorf("Float64() returned %v, want [0, 1)", val)
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	// Streams come into existence on first use
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if len(rng.subsystems) != 0 {
		t.Errorf("New PartitionedRNG has %d subsystems, want 0", len(rng.subsystems))
	}

	rng.ForMachine("press")

	if len(rng.subsystems) != 1 {
		t.Errorf("After one ForMachine call, have %d subsystems, want 1", len(rng.subsystems))
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Deterministic(t *testing.T) {
	input := "machine_press"
	hash1 := fnv1a64(input)
	hash2 := fnv1a64(input)

	if hash1 != hash2 {
		t.Errorf("fnv1a64(%q) not deterministic: %v != %v", input, hash1, hash2)
	}
}

func TestFnv1a64_Collision(t *testing.T) {
	// Different machine names should produce different hashes (spot check)
	names := []string{
		SubsystemMachine("MachineA"),
		SubsystemMachine("MachineB"),
		SubsystemMachine("MachineC"),
		SubsystemMachine("press"),
		SubsystemMachine(""),
		"",
	}

	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === SubsystemMachine Tests ===

func TestSubsystemMachine(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"MachineA", "machine_MachineA"},
		{"press", "machine_press"},
		{"", "machine_"},
	}

	for _, tt := range tests {
		got := SubsystemMachine(tt.name)
		if got != tt.want {
			t.Errorf("SubsystemMachine(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForMachine_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	// Prime the cache
	rng.ForMachine("press")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForMachine("press")
	}
}

func BenchmarkPartitionedRNG_ForMachine_CacheMiss(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng := NewPartitionedRNG(NewSimulationKey(42))
		rng.ForMachine("press")
	}
}
