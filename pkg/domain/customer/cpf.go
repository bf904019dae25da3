package customer

// CanonicalCPF strips everything but digits, so "123.456.789-09" and
// "12345678909" canonicalize to the same key.
func CanonicalCPF(cpf string) string {
	out := make([]byte, 0, 11)
	for i := 0; i < len(cpf); i++ {
		if cpf[i] >= '0' && cpf[i] <= '9' {
			out = append(out, cpf[i])
		}
	}
	return string(out)
}

// ValidCPF checks the two CPF verification digits. Sequences of a single
// repeated digit pass the checksum but are not valid CPFs.
func ValidCPF(cpf string) bool {
	cpf = CanonicalCPF(cpf)
	if len(cpf) != 11 {
		return false
	}
	repeated := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}
	if checkDigit(cpf, 9, 10) != int(cpf[9]-'0') {
		return false
	}
	return checkDigit(cpf, 10, 11) == int(cpf[10]-'0')
}

func checkDigit(cpf string, n, weight int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(cpf[i]-'0') * (weight - i)
	}
	r := (sum * 10) % 11
	if r == 10 || r == 11 {
		r = 0
	}
	return r
}
