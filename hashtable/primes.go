package hashtable

// primes is the bucket-count sequence. Each step roughly doubles.
var primes = [...]int{
	0, 3, 7, 13, 31, 61, 127, 251, 509, 1021, 2039, 4093, 8191, 16381,
	32749, 65521, 131071, 262139, 524287, 1048573, 2097143, 4194301,
	8388593, 16777213, 33554393, 67108859, 134217689, 268435399,
	536870909, 1073741789, 2147483647,
}

// primeIndexFor returns the index of the smallest prime >= n.
func primeIndexFor(n int) int {
	for i, p := range primes {
		if p >= n {
			return i
		}
	}
	return len(primes) - 1
}
