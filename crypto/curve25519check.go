package crypto

import "math/big"

// Edwards25519 point-decompression check, used to reject PublicKey
// bytes that do not decode to a valid curve point. The standard
// library's crypto/ed25519 package happily wraps any 32 bytes in a
// PublicKey value without validating them, so this check is hand-rolled
// arithmetic over the field; see DESIGN.md for why no library covers
// this.
var (
	fieldP = mustBigInt("57896044618658097711785492504343953926634992332820282019728792003956564819949") // 2^255 - 19
	edD    = computeEdD()
	sqrtM1 = computeSqrtM1()
)

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("crypto: bad constant " + s)
	}
	return n
}

func computeEdD() *big.Int {
	// d = -121665/121666 mod p
	num := big.NewInt(-121665)
	num.Mod(num, fieldP)
	den := big.NewInt(121666)
	denInv := new(big.Int).ModInverse(den, fieldP)
	d := new(big.Int).Mul(num, denInv)
	return d.Mod(d, fieldP)
}

func computeSqrtM1() *big.Int {
	// sqrt(-1) = 2^((p-1)/4) mod p, valid since p ≡ 5 (mod 8).
	exp := new(big.Int).Sub(fieldP, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))
	return new(big.Int).Exp(big.NewInt(2), exp, fieldP)
}

// isOnCurve reports whether the given 32-byte little-endian compressed
// point decodes to a valid edwards25519 curve point.
func isOnCurve(compressed []byte) bool {
	if len(compressed) != 32 {
		return false
	}
	buf := make([]byte, 32)
	copy(buf, compressed)
	signBit := buf[31] >> 7
	buf[31] &= 0x7f

	y := new(big.Int).SetBytes(reverse(buf))
	if y.Cmp(fieldP) >= 0 {
		return false // non-canonical encoding
	}

	one := big.NewInt(1)
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, fieldP)

	u := new(big.Int).Sub(y2, one)
	u.Mod(u, fieldP)

	v := new(big.Int).Mul(edD, y2)
	v.Add(v, one)
	v.Mod(v, fieldP)
	if v.Sign() == 0 {
		return false
	}

	vInv := new(big.Int).ModInverse(v, fieldP)
	if vInv == nil {
		return false
	}
	x2 := new(big.Int).Mul(u, vInv)
	x2.Mod(x2, fieldP)

	// candidate = x2^((p+3)/8) mod p
	exp := new(big.Int).Add(fieldP, big.NewInt(3))
	exp.Div(exp, big.NewInt(8))
	x := new(big.Int).Exp(x2, exp, fieldP)

	check := new(big.Int).Mul(x, x)
	check.Mod(check, fieldP)
	if check.Cmp(x2) != 0 {
		x.Mul(x, sqrtM1)
		x.Mod(x, fieldP)
		check.Mul(x, x)
		check.Mod(check, fieldP)
		if check.Cmp(x2) != 0 {
			return false // x2 is not a quadratic residue: not a valid point
		}
	}

	if x.Sign() == 0 && signBit == 1 {
		return false // negative zero is not a canonical encoding
	}
	return true
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
