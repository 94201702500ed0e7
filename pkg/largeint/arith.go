package largeint

// signExtend widens v to n bytes by repeating its sign byte.
func signExtend(v []byte, n int) []byte {
	if len(v) >= n {
		return v
	}
	fill := byte(0x00)
	if v[0]&0x80 != 0 {
		fill = 0xff
	}
	out := make([]byte, n)
	diff := n - len(v)
	for i := 0; i < diff; i++ {
		out[i] = fill
	}
	copy(out[diff:], v)
	return out
}

// Add returns x + y.
//
// The result has the length of the longer operand, plus one guard byte when
// two operands of the same sign overflow into the sign position. It is not
// normalized.
func (x Int) Add(y Int) Int {
	a, b := x.val(), y.val()
	if len(a) < len(b) {
		a, b = b, a
	}
	b = signExtend(b, len(a))

	// res[0] is reserved for a guard byte and only published when needed.
	res := make([]byte, len(a)+1)
	carry := 0
	for i := len(a) - 1; i >= 0; i-- {
		carry += int(a[i]) + int(b[i])
		res[i+1] = byte(carry)
		carry >>= 8
	}

	xNeg, yNeg := x.IsNegative(), y.IsNegative()
	resNeg := res[1]&0x80 != 0
	switch {
	case !xNeg && !yNeg && resNeg:
		res[0] = 0x00
		return Int{b: res}
	case xNeg && yNeg && !resNeg:
		res[0] = 0xff
		return Int{b: res}
	}
	return Int{b: res[1:]}
}

// isMinimum reports whether v is the most negative value of its length:
// 0x80 followed by zero bytes.
func isMinimum(v []byte) bool {
	if v[0] != 0x80 {
		return false
	}
	for _, c := range v[1:] {
		if c != 0 {
			return false
		}
	}
	return true
}

// Neg returns -x.
func (x Int) Neg() Int {
	v := x.val()
	offset := 0
	if isMinimum(v) {
		// +2^(8n-1) needs one more byte than -2^(8n-1)
		offset = 1
	}
	flipped := make([]byte, len(v)+offset)
	for i, c := range v {
		flipped[i+offset] = ^c
	}
	return Int{b: flipped}.Add(one)
}

// Sub returns x - y.
func (x Int) Sub(y Int) Int {
	return x.Add(y.Neg())
}

// Abs returns |x|.
func (x Int) Abs() Int {
	if x.IsNegative() {
		return x.Neg()
	}
	return x
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Int) Cmp(y Int) int {
	return x.Sub(y).Sign()
}

// Equal reports whether x and y hold the same value, regardless of encoding
// length.
func (x Int) Equal(y Int) bool {
	a, b := x.Normalize().val(), y.Normalize().val()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Lsh returns x shifted left by one bit. The result grows by one sign byte
// when the two top bits of the leading byte differ, so Lsh(x) == x + x.
func (x Int) Lsh() Int {
	v := x.val()
	grow := 0
	if top := v[0] & 0xc0; top == 0x40 || top == 0x80 {
		grow = 1
	}
	shifted := make([]byte, len(v)+grow)
	if grow == 1 {
		shifted[0] = x.signFill()
	}
	var carry byte
	for i := len(v) - 1; i >= 0; i-- {
		shifted[i+grow] = v[i]<<1 | carry
		carry = v[i] >> 7
	}
	return Int{b: shifted}
}

// Rsh returns x shifted right by one bit, replicating the sign bit. The
// result is normalized.
func (x Int) Rsh() Int {
	v := x.val()
	shifted := make([]byte, len(v))
	var carry byte
	if x.IsNegative() {
		carry = 0x80
	}
	for i, c := range v {
		shifted[i] = c>>1 | carry
		carry = c << 7
	}
	return Int{b: shifted}.Normalize()
}

// Mul returns x * y, normalized.
//
// Both operands are made non-negative first. The bits of |x| are scanned from
// least to most significant while a copy of |y| is doubled at every step and
// added into the product whenever the current bit is set.
func (x Int) Mul(y Int) Int {
	a, b := x.Abs().Normalize(), y.Abs()

	product := Int{b: make([]byte, a.Len()+b.Len())}
	av := a.val()
	for i := len(av) - 1; i >= 0; i-- {
		for bit := uint(0); bit < 8; bit++ {
			if av[i]&(1<<bit) != 0 {
				product = product.Add(b)
			}
			b = b.Lsh()
		}
	}

	if x.IsNegative() != y.IsNegative() {
		product = product.Neg()
	}
	return product.Normalize()
}

// quoRem divides x by a non-zero y, truncating toward zero. The remainder
// carries the sign of x.
func (x Int) quoRem(y Int) (Int, Int) {
	dividend, divisor := x.Abs().Normalize(), y.Abs().Normalize()

	// find the largest power-of-two multiple of the divisor not above the dividend
	shift := 0
	for divisor.Cmp(dividend) <= 0 {
		divisor = divisor.Lsh()
		shift++
	}
	divisor = divisor.Rsh()

	quotient := zero
	for ; shift > 0; shift-- {
		quotient = quotient.Lsh()
		if diff := dividend.Sub(divisor); !diff.IsNegative() {
			dividend = diff.Normalize()
			quotient = quotient.Add(one)
		}
		divisor = divisor.Rsh()
	}

	if x.IsNegative() != y.IsNegative() {
		quotient = quotient.Neg()
	}
	if x.IsNegative() {
		dividend = dividend.Neg()
	}
	return quotient.Normalize(), dividend.Normalize()
}

// QuoRem returns the quotient x / y truncated toward zero and the remainder
// x - y*(x/y), which has the sign of x or is zero.
func (x Int) QuoRem(y Int) (Int, Int, error) {
	if y.IsZero() {
		return Int{}, Int{}, ErrDivisionByZero
	}
	q, r := x.quoRem(y)
	return q, r, nil
}

// Div returns x / y truncated toward zero.
func (x Int) Div(y Int) (Int, error) {
	if y.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	q, _ := x.quoRem(y)
	return q, nil
}

// Mod returns x - y*(x/y). The result has the sign of x or is zero.
func (x Int) Mod(y Int) (Int, error) {
	if y.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	_, r := x.quoRem(y)
	return r, nil
}
