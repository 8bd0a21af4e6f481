package protocol

import "testing"

func BenchmarkMatchMedications(b *testing.B) {
	meds := []string{
		"Warfarin Sodium 5mg", "Metoprolol Tartrate", "Lisinopril",
		"Atorvastatin 40mg", "Piperacillin-Tazobactam",
	}
	needles := []string{"warfarin", "ibuprofen", "naproxen", "aspirin"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchMedications(meds, needles)
	}
}

func BenchmarkMatchAllergies(b *testing.B) {
	allergies := []string{"Penicillin", "Sulfa drugs", "Latex"}
	needles := []string{"amoxicillin", "penicillin", "piperacillin"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchAllergies(allergies, needles)
	}
}
