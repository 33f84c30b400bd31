package types

import "testing"

func TestBucketRowLessOrdersByBucketIndexFirst(t *testing.T) {
	a := BucketRow{BucketIndex: 0, BucketHash: 100, PathHash: 1, ContentHash: 1}
	b := BucketRow{BucketIndex: 1, BucketHash: 1, PathHash: 0, ContentHash: 0}
	if !a.Less(b) {
		t.Errorf("expected %+v < %+v by BucketIndex", a, b)
	}
}

func TestBucketRowLessOrdersByBucketHashSecond(t *testing.T) {
	a := BucketRow{BucketIndex: 0, BucketHash: 1, PathHash: 9, ContentHash: 9}
	b := BucketRow{BucketIndex: 0, BucketHash: 2, PathHash: 0, ContentHash: 0}
	if !a.Less(b) {
		t.Errorf("expected %+v < %+v by BucketHash", a, b)
	}
}

func TestBucketRowLessOrdersByPathHashThird(t *testing.T) {
	a := BucketRow{BucketIndex: 0, BucketHash: 0, PathHash: 1, ContentHash: 9}
	b := BucketRow{BucketIndex: 0, BucketHash: 0, PathHash: 2, ContentHash: 0}
	if !a.Less(b) {
		t.Errorf("expected %+v < %+v by PathHash", a, b)
	}
}

func TestBucketRowLessOrdersByContentHashLast(t *testing.T) {
	a := BucketRow{BucketIndex: 0, BucketHash: 0, PathHash: 0, ContentHash: 1}
	b := BucketRow{BucketIndex: 0, BucketHash: 0, PathHash: 0, ContentHash: 2}
	if !a.Less(b) {
		t.Errorf("expected %+v < %+v by ContentHash", a, b)
	}
}

func TestBucketRowEqualIsNotLess(t *testing.T) {
	a := BucketRow{BucketIndex: 1, BucketHash: 2, PathHash: 3, ContentHash: 4}
	if a.Less(a) {
		t.Errorf("%+v.Less(itself) = true, want false", a)
	}
	if a.Compare(a) != 0 {
		t.Errorf("%+v.Compare(itself) = %d, want 0", a, a.Compare(a))
	}
}

func TestBucketRowCompareSigns(t *testing.T) {
	small := BucketRow{BucketIndex: 0, BucketHash: 0, PathHash: 0, ContentHash: 0}
	big := BucketRow{BucketIndex: 1, BucketHash: 0, PathHash: 0, ContentHash: 0}

	if small.Compare(big) != -1 {
		t.Errorf("small.Compare(big) = %d, want -1", small.Compare(big))
	}
	if big.Compare(small) != 1 {
		t.Errorf("big.Compare(small) = %d, want 1", big.Compare(small))
	}
}

func TestSemaphoreAcquireRelease(t *testing.T) {
	sem := NewSemaphore(1)
	sem.Acquire()

	acquired := make(chan struct{})
	go func() {
		sem.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire succeeded before Release, semaphore limit not enforced")
	default:
	}

	sem.Release()
	<-acquired
}
